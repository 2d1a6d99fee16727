package topology

import "fmt"

// SurfelAdjacency selects, for every pair of distinct directions, whether
// boundary tracking follows the interior or the exterior of the shape when
// both are possible. This happens around an edge shared by two inside spels
// that only touch diagonally.
//
// The table is symmetric: the choice for (i, j) and (j, i) is the same, which
// keeps the adjacency relation between bels symmetric.
type SurfelAdjacency struct {
	dim      int
	interior [maxDim][maxDim]bool
}

// NewSurfelAdjacency returns a policy of dimension dim choosing the interior
// in every direction pair when interior is true, the exterior otherwise.
func NewSurfelAdjacency(dim int, interior bool) *SurfelAdjacency {
	if dim < 1 || dim > maxDim {
		panic(fmt.Sprintf("topology: adjacency dimension %d out of range", dim))
	}
	a := &SurfelAdjacency{dim: dim}
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if i != j {
				a.interior[i][j] = interior
			}
		}
	}
	return a
}

// Dim returns the dimension of the policy.
func (a *SurfelAdjacency) Dim() int { return a.dim }

// SetAdjacency sets the choice for the direction pair (i, j).
func (a *SurfelAdjacency) SetAdjacency(i, j int, interior bool) {
	a.check(i, j)
	a.interior[i][j] = interior
	a.interior[j][i] = interior
}

// Adjacency reports whether the interior is followed for the pair (i, j).
func (a *SurfelAdjacency) Adjacency(i, j int) bool {
	a.check(i, j)
	return a.interior[i][j]
}

func (a *SurfelAdjacency) check(i, j int) {
	if i < 0 || j < 0 || i >= a.dim || j >= a.dim || i == j {
		panic(fmt.Sprintf("topology: invalid direction pair (%d,%d) in dimension %d", i, j, a.dim))
	}
}
