package utils

// Index is a list of node, slot or equation indices.
type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}
