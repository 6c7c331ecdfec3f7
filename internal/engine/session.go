package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"street-name-validation/internal/models"
	errs "street-name-validation/pkg/errors"
	"street-name-validation/pkg/logging"
	"street-name-validation/pkg/utils"
)

// Session owns one applicant's candidate rows and the per-slot validation
// lifecycle. Each slot holds at most one in-flight validation: a new
// keystroke cancels the prior check and restarts the debounce timer. Stale
// results are additionally discarded by comparing against the slot's latest
// input, which closes the race where cancellation fires after a result
// already resolved.
type Session struct {
	validator *Validator
	debounce  time.Duration
	minCount  int
	log       *logging.ComponentLogger

	mu    sync.Mutex
	slots []models.Candidate
	ctrl  map[string]*slotController // keyed by candidate ID
	base  int                        // external numbering offset

	onApplied func(id string, v models.Validity)
}

type slotController struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

func NewSession(v *Validator, debounce time.Duration, minCount int, log *logging.Logger) *Session {
	s := &Session{
		validator: v,
		debounce:  debounce,
		minCount:  minCount,
		log:       log.WithComponent("session"),
		ctrl:      make(map[string]*slotController),
	}
	s.mu.Lock()
	s.padLocked()
	s.renumberLocked(0)
	s.mu.Unlock()
	return s
}

// OnApplied registers a callback invoked after a validation result lands on a
// slot. Intended for tests and UI change notification.
func (s *Session) OnApplied(fn func(id string, v models.Validity)) {
	s.mu.Lock()
	s.onApplied = fn
	s.mu.Unlock()
}

// Candidates returns a snapshot of the rows in display order.
func (s *Session) Candidates() []models.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Candidate, len(s.slots))
	copy(out, s.slots)
	return out
}

// ValidCount reports how many rows are currently Valid.
func (s *Session) ValidCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.slots {
		if c.Status == models.StatusValid {
			n++
		}
	}
	return n
}

// MinimumMet reports whether enough rows are Valid to proceed.
func (s *Session) MinimumMet() bool {
	return s.ValidCount() >= s.minCount
}

// Input records a keystroke for the slot at index i and schedules a debounced
// validation pass, superseding any in-flight one.
func (s *Session) Input(i int, value string) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.slots) {
		s.mu.Unlock()
		return errs.NewValidation("Session.Input", "no candidate at index", nil)
	}
	slot := &s.slots[i]
	slot.StreetName = value
	id := slot.ID

	s.cancelLocked(id)
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := &slotController{cancel: cancel}
	ctrl.timer = time.AfterFunc(s.debounce, func() {
		s.runValidation(ctx, id, value)
	})
	s.ctrl[id] = ctrl
	s.mu.Unlock()
	return nil
}

// SelectType records a street type choice and validates immediately, without
// debounce: a select interaction is a commit, not a keystroke burst.
func (s *Session) SelectType(i int, streetType string) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.slots) {
		s.mu.Unlock()
		return errs.NewValidation("Session.SelectType", "no candidate at index", nil)
	}
	s.slots[i].StreetType = streetType
	id := s.slots[i].ID
	name := s.slots[i].StreetName
	s.mu.Unlock()

	result, err := s.validator.Validate(context.Background(), name, streetType)
	if err != nil {
		return err
	}
	s.apply(id, name, result)
	return nil
}

// Commit title-cases the slot's name for display and persistence.
func (s *Session) Commit(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.slots) {
		return errs.NewValidation("Session.Commit", "no candidate at index", nil)
	}
	s.slots[i].StreetName = utils.TitleCase(s.slots[i].StreetName)
	return nil
}

// Close cancels every in-flight validation.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.ctrl {
		s.cancelLocked(id)
	}
}

func (s *Session) runValidation(ctx context.Context, id, value string) {
	s.mu.Lock()
	slot := s.slotByIDLocked(id)
	if slot == nil {
		s.mu.Unlock()
		return
	}
	streetType := slot.StreetType
	s.mu.Unlock()

	result, err := s.validator.Validate(ctx, value, streetType)
	if err != nil {
		// Cancellation is not an error; the superseding pass owns the slot.
		s.log.Debug("validation discarded", logging.String("slot", id), logging.Any("reason", err.Error()))
		return
	}
	s.apply(id, value, result)
}

// apply merges a validity result into the slot, discarding it when the slot's
// input has moved on since the check was issued.
func (s *Session) apply(id, value string, result models.Validity) {
	s.mu.Lock()
	slot := s.slotByIDLocked(id)
	if slot == nil || slot.StreetName != value {
		s.mu.Unlock()
		return
	}
	slot.Apply(result)
	delete(s.ctrl, id)
	fn := s.onApplied
	s.mu.Unlock()

	if fn != nil {
		fn(id, result)
	}
}

func (s *Session) slotByIDLocked(id string) *models.Candidate {
	for i := range s.slots {
		if s.slots[i].ID == id {
			return &s.slots[i]
		}
	}
	return nil
}

func (s *Session) cancelLocked(id string) {
	if ctrl, ok := s.ctrl[id]; ok {
		if ctrl.timer != nil {
			ctrl.timer.Stop()
		}
		ctrl.cancel()
		delete(s.ctrl, id)
	}
}

func blankCandidate() models.Candidate {
	return models.Candidate{
		ID:      uuid.NewString(),
		Status:  models.StatusInvalid,
		Message: MsgRequired,
	}
}
