//go:build !amd64 && !arm64

package hwy

func init() {
	// Other architectures use the scalar width. wasm SIMD128 and the RISC-V
	// vector extension would slot in here with their own detection.
	setScalarMode()
}
