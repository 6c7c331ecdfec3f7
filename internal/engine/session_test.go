package engine

import (
	"testing"
	"time"

	"street-name-validation/internal/models"
	"street-name-validation/internal/testutil"
	"street-name-validation/pkg/config"
)

func newTestSession(t *testing.T, debounce time.Duration, minCount int) (*Session, *testutil.MockChecker) {
	t.Helper()
	lookup := testutil.NewMockLookup()
	checker := testutil.NewMockChecker()
	v := NewValidator(testCorpus(t, []string{"MAPLE"}), lookup, checker, testRules(), testLogger(t))
	s := NewSession(v, debounce, minCount, testLogger(t))
	t.Cleanup(s.Close)
	return s, checker
}

// testRules loosens the word-length rule so short in-progress inputs like
// "Map" still reach the similarity stage.
func testRules() (r config.Rules) {
	r = config.DefaultRules()
	r.MinWordLength = 1
	return r
}

func TestInputDebouncesToLatestKeystroke(t *testing.T) {
	s, checker := newTestSession(t, 30*time.Millisecond, 3)

	applied := make(chan models.Validity, 4)
	s.OnApplied(func(id string, v models.Validity) { applied <- v })

	// A rapid burst: only the final value should complete a pass.
	for _, v := range []string{"M", "Ma", "Map"} {
		if err := s.Input(0, v); err != nil {
			t.Fatalf("Input: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("validation never completed")
	}

	checker.Mu.Lock()
	calls := append([]string(nil), checker.Calls...)
	checker.Mu.Unlock()
	if len(calls) != 1 || calls[0] != "Map" {
		t.Fatalf("checker calls = %v, want exactly [Map]", calls)
	}

	got := s.Candidates()[0]
	if got.StreetName != "Map" {
		t.Fatalf("slot name = %q, want Map", got.StreetName)
	}
	if got.Message != MsgTypeRequired {
		t.Fatalf("message = %q, want %q", got.Message, MsgTypeRequired)
	}
}

func TestSelectTypeValidatesImmediately(t *testing.T) {
	s, _ := newTestSession(t, time.Hour, 3) // debounce long enough to never fire

	if err := s.Input(0, "Maplewood"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := s.SelectType(0, "AVE"); err != nil {
		t.Fatalf("SelectType: %v", err)
	}

	got := s.Candidates()[0]
	if got.Status != models.StatusValid {
		t.Fatalf("status = %v (%q), want valid", got.Status, got.Message)
	}
	if got.StreetType != "AVE" {
		t.Fatalf("type = %q, want AVE", got.StreetType)
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	s, _ := newTestSession(t, 10*time.Millisecond, 3)

	done := make(chan string, 2)
	s.OnApplied(func(id string, v models.Validity) { done <- id })

	if err := s.Input(0, "Maple"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	// Move the input on before the debounce can fire; the first pass must
	// never land.
	if err := s.Input(0, "Maplewood"); err != nil {
		t.Fatalf("Input: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("validation never completed")
	}
	if got := s.Candidates()[0]; got.StreetName != "Maplewood" {
		t.Fatalf("slot name = %q, want Maplewood", got.StreetName)
	}
}

func TestCommitTitleCases(t *testing.T) {
	s, _ := newTestSession(t, time.Hour, 3)

	if err := s.Input(0, "oak  hollow"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if err := s.Commit(0); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got := s.Candidates()[0].StreetName; got != "Oak  Hollow" {
		t.Fatalf("committed name = %q, want Oak  Hollow", got)
	}
}

func TestValidCountAndMinimum(t *testing.T) {
	s, _ := newTestSession(t, time.Hour, 2)

	if s.MinimumMet() {
		t.Fatal("fresh session should not meet the minimum")
	}
	for i := 0; i < 2; i++ {
		if err := s.Input(i, "Maplewood"); err != nil {
			t.Fatalf("Input: %v", err)
		}
		if err := s.SelectType(i, "AVE"); err != nil {
			t.Fatalf("SelectType: %v", err)
		}
	}
	if n := s.ValidCount(); n != 2 {
		t.Fatalf("ValidCount = %d, want 2", n)
	}
	if !s.MinimumMet() {
		t.Fatal("minimum should be met")
	}
}

func TestInputOutOfRange(t *testing.T) {
	s, _ := newTestSession(t, time.Hour, 3)
	if err := s.Input(7, "Maple"); err == nil {
		t.Fatal("expected an error for an out-of-range index")
	}
}
