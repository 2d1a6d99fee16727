package kspace

import (
	"github.com/emirpasic/gods/sets/treeset"
)

// SCellSet is an ordered set of signed cells. Iteration follows
// SCell.Compare, so two equal sets always enumerate in the same order.
type SCellSet struct {
	tree *treeset.Set
}

func scellComparator(a, b interface{}) int {
	return a.(SCell).Compare(b.(SCell))
}

// NewSCellSet returns a set holding cells.
func NewSCellSet(cells ...SCell) *SCellSet {
	set := &SCellSet{tree: treeset.NewWith(scellComparator)}
	for _, c := range cells {
		set.tree.Add(c)
	}
	return set
}

// Add inserts s and reports whether it was absent.
func (set *SCellSet) Add(s SCell) bool {
	if set.tree.Contains(s) {
		return false
	}
	set.tree.Add(s)
	return true
}

// Contains reports whether s is in the set.
func (set *SCellSet) Contains(s SCell) bool { return set.tree.Contains(s) }

// Len returns the number of cells.
func (set *SCellSet) Len() int { return set.tree.Size() }

// Values returns the cells in order.
func (set *SCellSet) Values() []SCell {
	out := make([]SCell, 0, set.tree.Size())
	it := set.tree.Iterator()
	for it.Next() {
		out = append(out, it.Value().(SCell))
	}
	return out
}

// Each calls fn on every cell in order until fn returns false.
func (set *SCellSet) Each(fn func(SCell) bool) {
	it := set.tree.Iterator()
	for it.Next() {
		if !fn(it.Value().(SCell)) {
			return
		}
	}
}

// Equal reports whether both sets hold the same cells.
func (set *SCellSet) Equal(o *SCellSet) bool {
	if set.Len() != o.Len() {
		return false
	}
	equal := true
	set.Each(func(s SCell) bool {
		equal = o.Contains(s)
		return equal
	})
	return equal
}
