package metrics

import "gonum.org/v1/gonum/mat"

// CountNonZero returns the number of entries of v that are exactly non-zero.
func CountNonZero(v mat.Vector) int {
	nz := 0
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) != 0 {
			nz++
		}
	}
	return nz
}

// Support returns the indices of the non-zero entries of v in increasing order.
func Support(v mat.Vector) []int {
	var idx []int
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// L1Norm returns the sum of absolute values of v.
func L1Norm(v mat.Vector) float64 {
	return mat.Norm(v, 1)
}
