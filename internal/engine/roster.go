package engine

import (
	"street-name-validation/internal/models"
	errs "street-name-validation/pkg/errors"
)

// Roster operations: adding, deleting, and reordering candidate rows. The
// session never drops below its minimum row count; deleting past the floor
// pads with fresh empty rows so the applicant always sees enough inputs.

// Add appends a fresh empty row and returns its index.
func (s *Session) Add() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = append(s.slots, blankCandidate())
	s.renumberLocked(s.base)
	return len(s.slots) - 1
}

// Delete removes the row at index i, cancelling any in-flight validation it
// owns, then pads back up to the minimum count and renumbers.
func (s *Session) Delete(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.slots) {
		return errs.NewValidation("Session.Delete", "no candidate at index", nil)
	}
	s.cancelLocked(s.slots[i].ID)
	s.slots = append(s.slots[:i], s.slots[i+1:]...)
	s.padLocked()
	s.renumberLocked(s.base)
	return nil
}

// Reorder rearranges the rows to match ids, which must be a full permutation
// of the current row IDs in the desired display order. Every row's order
// field is recomputed from its new position plus the session's base offset.
func (s *Session) Reorder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(ids) != len(s.slots) {
		return errs.NewValidation("Session.Reorder", "id list must cover every candidate", nil)
	}
	byID := make(map[string]models.Candidate, len(s.slots))
	for _, c := range s.slots {
		byID[c.ID] = c
	}
	next := make([]models.Candidate, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return errs.NewValidation("Session.Reorder", "unknown candidate id "+id, nil)
		}
		delete(byID, id)
		next = append(next, c)
	}
	s.slots = next
	s.renumberLocked(s.base)
	return nil
}

// SetBase sets the external numbering offset applied when rows are
// renumbered. Existing rows are renumbered immediately.
func (s *Session) SetBase(base int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = base
	s.renumberLocked(base)
}

// padLocked grows the roster with empty rows until the minimum count holds.
func (s *Session) padLocked() {
	for len(s.slots) < s.minCount {
		s.slots = append(s.slots, blankCandidate())
	}
}

// renumberLocked assigns dense 1-based order values offset by base, in
// display order.
func (s *Session) renumberLocked(base int) {
	for i := range s.slots {
		s.slots[i].Order = base + i + 1
	}
}
