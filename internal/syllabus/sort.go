package syllabus

import (
	"cmp"
	"slices"

	"github.com/dgallion1/contentgen/internal/doctree"
)

// SortNumbered returns a stably sorted copy of entries: entries with a
// number come first in ascending order, the rest follow in their original
// order. Equal numbers keep document order.
func SortNumbered[T any](entries []T, number func(T) (int, bool)) []T {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b T) int {
		na, okA := number(a)
		nb, okB := number(b)
		switch {
		case okA && okB:
			return cmp.Compare(na, nb)
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
	return out
}

// Sort orders lessons inside every module, then the modules themselves.
func Sort(modules []doctree.Module) []doctree.Module {
	for i := range modules {
		modules[i].Lessons = SortNumbered(modules[i].Lessons, func(l doctree.Lesson) (int, bool) {
			return LessonNumber(l.Title)
		})
	}
	return SortNumbered(modules, func(m doctree.Module) (int, bool) {
		return ModuleNumber(m.Title)
	})
}
