package hwy

// GatherIndex loads src[indices[i]] into lane i. It is the portable form of a
// register permute (VPERMPS) when src fits in one vector, and of a gather
// otherwise. Out-of-bounds indices produce zero.
func GatherIndex[T Lanes, I ~int32](src []T, indices Vec[I]) Vec[T] {
	r := Vec[T]{n: indices.n}
	for i := range indices.n {
		if idx := int(indices.data[i]); idx >= 0 && idx < len(src) {
			r.data[i] = src[idx]
		}
	}
	return r
}

// GatherIndexMasked is GatherIndex restricted to the lanes where mask is set;
// the other lanes are zero.
func GatherIndexMasked[T Lanes, I ~int32](src []T, indices Vec[I], mask Mask[T]) Vec[T] {
	r := Vec[T]{n: indices.n}
	for i := range indices.n {
		if mask.bits&(1<<uint(i)) == 0 {
			continue
		}
		if idx := int(indices.data[i]); idx >= 0 && idx < len(src) {
			r.data[i] = src[idx]
		}
	}
	return r
}
