// Package edit describes text changes as sequences of atomic replacements
// and translates offsets and ranges across them.
package edit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/libsyntax/text"
)

// ErrPositionDeleted is returned when an offset lies strictly inside a
// range removed by an edit.
var ErrPositionDeleted = errors.New("edit: position was deleted")

// ConflictError is the panic value raised when an atom overlaps text that a
// previous atom of the same edit replaced.
type ConflictError struct {
	Existing AtomEdit
	New      text.Range
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("edit: range %v overlaps earlier edit of %v", e.New, e.Existing.Delete)
}

// AtomEdit replaces the text of Delete with Insert.
type AtomEdit struct {
	Delete text.Range `json:"delete"`
	Insert string     `json:"insert"`
}

func (a AtomEdit) delta() int {
	return len(a.Insert) - a.Delete.Len()
}

// Builder collects atoms. Ranges given to the builder refer to the text as
// it was before any of the atoms; the builder rebases each one onto the
// result of its predecessors.
type Builder struct {
	atoms []AtomEdit
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Replace(r text.Range, replacement string) {
	for _, prev := range b.atoms {
		r = rebaseRange(prev, r)
	}
	b.atoms = append(b.atoms, AtomEdit{Delete: r, Insert: replacement})
}

func (b *Builder) Delete(r text.Range) {
	b.Replace(r, "")
}

func (b *Builder) Insert(offset int, s string) {
	b.Replace(text.RangeOfLen(offset, 0), s)
}

func (b *Builder) Finish() *Edit {
	atoms := make([]AtomEdit, len(b.atoms))
	copy(atoms, b.atoms)
	return &Edit{atoms: atoms}
}

// rebaseRange moves r, given in the coordinates before prev, into the
// coordinates after it.
func rebaseRange(prev AtomEdit, r text.Range) text.Range {
	s, e := prev.Delete.Start, prev.Delete.End
	switch {
	case r.Start >= e:
		return text.RangeOfLen(r.Start+prev.delta(), r.Len())
	case r.End <= s:
		return r
	default:
		panic(&ConflictError{Existing: prev, New: r})
	}
}

// Edit is a finished, immutable sequence of atoms. Atom i is expressed in
// the coordinates produced by applying atoms 0..i-1.
type Edit struct {
	atoms []AtomEdit
}

func (e *Edit) Atoms() []AtomEdit {
	return e.atoms
}

func (e *Edit) IsEmpty() bool {
	return len(e.atoms) == 0
}

// OriginalAtoms returns the atoms with every range expressed in the
// coordinates of the unedited text, the form editors expect for a batch of
// simultaneous replacements.
func (e *Edit) OriginalAtoms() []AtomEdit {
	result := make([]AtomEdit, len(e.atoms))
	for i, a := range e.atoms {
		r := a.Delete
		for j := i - 1; j >= 0; j-- {
			prev := e.atoms[j]
			if r.Start >= prev.Delete.Start+len(prev.Insert) {
				r = text.RangeOfLen(r.Start-prev.delta(), r.Len())
			}
		}
		result[i] = AtomEdit{Delete: r, Insert: a.Insert}
	}
	return result
}

// Apply returns s with every atom applied in order.
func (e *Edit) Apply(s string) string {
	for _, a := range e.atoms {
		var sb strings.Builder
		sb.Grow(len(s) + a.delta())
		sb.WriteString(s[:a.Delete.Start])
		sb.WriteString(a.Insert)
		sb.WriteString(s[a.Delete.End:])
		s = sb.String()
	}
	return s
}

// ApplyToOffset maps an offset in the original text to the edited text.
func (e *Edit) ApplyToOffset(offset int) (int, error) {
	for _, a := range e.atoms {
		s, end := a.Delete.Start, a.Delete.End
		switch {
		case offset < s:
		case offset >= end:
			offset += a.delta()
		default:
			return 0, ErrPositionDeleted
		}
	}
	return offset, nil
}

// ApplyToRange maps r to the edited text. The end is exclusive, so a range
// ending where a deleted range starts keeps its end. It fails when a byte of
// r was deleted.
func (e *Edit) ApplyToRange(r text.Range) (text.Range, error) {
	start, err := e.ApplyToOffset(r.Start)
	if err != nil {
		return text.Range{}, err
	}
	if r.IsEmpty() {
		return text.NewRange(start, start), nil
	}
	end := r.End
	for _, a := range e.atoms {
		s, de := a.Delete.Start, a.Delete.End
		switch {
		case end <= s:
		case end >= de:
			end += a.delta()
		default:
			return text.Range{}, ErrPositionDeleted
		}
	}
	return text.NewRange(start, end), nil
}
