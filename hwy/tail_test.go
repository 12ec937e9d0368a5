package hwy

import "testing"

func TestFirstN(t *testing.T) {
	for lanes := 1; lanes <= MaxLanesCap; lanes *= 2 {
		for k := 0; k <= lanes; k++ {
			m := FirstN[float32](k, lanes)
			if m.NumLanes() != lanes {
				t.Fatalf("FirstN(%d, %d): got %d lanes", k, lanes, m.NumLanes())
			}
			if want := uint32(1)<<uint(k) - 1; m.Bits() != want {
				t.Errorf("FirstN(%d, %d): bits %b, want %b", k, lanes, m.Bits(), want)
			}
			if m.CountTrue() != k {
				t.Errorf("FirstN(%d, %d): CountTrue %d", k, lanes, m.CountTrue())
			}
			if m.AllTrue() != (k == lanes) {
				t.Errorf("FirstN(%d, %d): AllTrue %v", k, lanes, m.AllTrue())
			}
			if m.AnyTrue() != (k > 0) {
				t.Errorf("FirstN(%d, %d): AnyTrue %v", k, lanes, m.AnyTrue())
			}
		}
	}
}

func TestFirstNClamps(t *testing.T) {
	if got := FirstN[float32](-3, 8).CountTrue(); got != 0 {
		t.Errorf("negative count: got %d active lanes", got)
	}
	if got := FirstN[float32](20, 8).CountTrue(); got != 8 {
		t.Errorf("count above lanes: got %d active lanes", got)
	}
	m := FirstN[float32](2, 8)
	if !m.GetBit(1) || m.GetBit(2) || m.GetBit(-1) || m.GetBit(8) {
		t.Error("GetBit out of range or wrong")
	}
}

func TestTailMask(t *testing.T) {
	m := TailMask[float32](1)
	if m.NumLanes() != MaxLanes[float32]() || m.CountTrue() != 1 {
		t.Errorf("TailMask(1): %d lanes, %d active", m.NumLanes(), m.CountTrue())
	}
}

func TestProcessWithTail(t *testing.T) {
	var full []int
	var tailOff, tailCount int
	ProcessWithTail(37, 16,
		func(offset int) { full = append(full, offset) },
		func(offset, count int) { tailOff, tailCount = offset, count },
	)

	if len(full) != 2 || full[0] != 0 || full[1] != 16 {
		t.Errorf("full offsets: got %v, want [0 16]", full)
	}
	if tailOff != 32 || tailCount != 5 {
		t.Errorf("tail: got (%d, %d), want (32, 5)", tailOff, tailCount)
	}
}

func TestAlignedSize(t *testing.T) {
	tests := []struct{ size, lanes, want int }{
		{0, 16, 0}, {1, 16, 16}, {16, 16, 16}, {17, 16, 32}, {5, 0, 5},
	}
	for _, tt := range tests {
		if got := AlignedSize(tt.size, tt.lanes); got != tt.want {
			t.Errorf("AlignedSize(%d, %d): got %d, want %d", tt.size, tt.lanes, got, tt.want)
		}
		if IsAligned(tt.size, tt.lanes) != (tt.size == tt.want || tt.lanes == 0) {
			t.Errorf("IsAligned(%d, %d) disagrees with AlignedSize", tt.size, tt.lanes)
		}
	}
}
