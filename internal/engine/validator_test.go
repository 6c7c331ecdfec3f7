package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"street-name-validation/internal/constants"
	"street-name-validation/internal/corpus"
	"street-name-validation/internal/models"
	"street-name-validation/internal/testutil"
	"street-name-validation/pkg/config"
	"street-name-validation/pkg/logging"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(logging.LogConfig{Level: logging.LevelError, Format: "text", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func testCorpus(t *testing.T, names []string) *corpus.Service {
	t.Helper()
	store := corpus.NewDiskStore(t.TempDir())
	raw, err := json.Marshal(names)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(constants.CorpusNamesKey, raw); err != nil {
		t.Fatal(err)
	}
	svc := corpus.NewService(store, testLogger(t))
	svc.Load()
	return svc
}

func newTestValidator(t *testing.T, names []string) (*Validator, *testutil.MockLookup, *testutil.MockChecker) {
	t.Helper()
	lookup := testutil.NewMockLookup()
	checker := testutil.NewMockChecker()
	v := NewValidator(testCorpus(t, names), lookup, checker, config.DefaultRules(), testLogger(t))
	return v, lookup, checker
}

func TestValidateRuleOrder(t *testing.T) {
	v, _, _ := newTestValidator(t, []string{"MAPLE"})

	cases := []struct {
		name    string
		input   string
		message string
	}{
		{"empty", "", MsgRequired},
		{"blank", "   ", MsgRequired},
		{"digits", "Elm12", MsgLettersOnly},
		{"punctuation", "O'Neil", MsgLettersOnly},
		{"direction prefix", "North Elm", MsgDirection},
		// The direction check is a raw prefix match, not word-boundary.
		{"direction embedded in word", "Northbrook", MsgDirection},
		{"type suffix", "Main Street", MsgStreetType},
		{"type prefix", "Street Smart", MsgStreetType},
		{"short word", "Bo Tree", MsgWordTooShort},
		{"single short word", "Yo", MsgWordTooShort},
		{"three words", "Oak Hollow Bend", MsgTooManyWords},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.Validate(context.Background(), tc.input, "AVE")
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if got.Status != models.StatusInvalid {
				t.Fatalf("status = %v, want invalid", got.Status)
			}
			if got.Message != tc.message {
				t.Fatalf("message = %q, want %q", got.Message, tc.message)
			}
			if got.NameValid {
				t.Fatal("NameValid = true for a rejected name")
			}
			if !got.TypeValid {
				t.Fatal("TypeValid = false with a type selected")
			}
		})
	}
}

func TestValidateExactDuplicate(t *testing.T) {
	v, lookup, _ := newTestValidator(t, []string{"MAPLE"})
	lookup.Resp["MAPLE"] = &models.StreetRecord{Name: "MAPLE", Type: "AVE", Jurisdiction: "RALEIGH"}

	// Normalization ignores case and whitespace when matching the corpus.
	got, err := v.Validate(context.Background(), "maple ", "AVE")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Status != models.StatusInvalid {
		t.Fatalf("status = %v, want invalid", got.Status)
	}
	want := "Maple Ave already exists in Raleigh"
	if got.Message != want {
		t.Fatalf("message = %q, want %q", got.Message, want)
	}
}

func TestValidateExactDuplicateLookupDegrades(t *testing.T) {
	v, lookup, _ := newTestValidator(t, []string{"MAPLE"})
	lookup.Err = errors.New("db down")

	got, err := v.Validate(context.Background(), "Maple", "AVE")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Message != "Maple already exists" {
		t.Fatalf("message = %q, want cached-entry fallback", got.Message)
	}
}

func TestValidatePrefixIsNotDuplicate(t *testing.T) {
	v, _, _ := newTestValidator(t, []string{"MAPLE"})

	got, err := v.Validate(context.Background(), "Maplewood", "AVE")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Status != models.StatusValid {
		t.Fatalf("status = %v (%q), want valid", got.Status, got.Message)
	}
	if got.Message != "" {
		t.Fatalf("message = %q, want empty", got.Message)
	}
}

func TestValidateTypeRequired(t *testing.T) {
	v, _, _ := newTestValidator(t, nil)

	got, err := v.Validate(context.Background(), "Maplewood", "")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Status != models.StatusInvalid || got.Message != MsgTypeRequired {
		t.Fatalf("got %+v, want invalid %q", got, MsgTypeRequired)
	}
	if !got.NameValid || got.TypeValid {
		t.Fatalf("validity flags = name %v type %v, want name-only", got.NameValid, got.TypeValid)
	}
}

func TestValidateSimilarityAdvisory(t *testing.T) {
	v, _, checker := newTestValidator(t, []string{"CRESTWOOD"})
	checker.Resp["Krestwood"] = &models.SimilarStreet{StreetName: "CRESTWOOD", Similar: true, MatchRatio: 1, NormalizedDistance: 0.1}

	got, err := v.Validate(context.Background(), "Krestwood", "AVE")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Status != models.StatusValid {
		t.Fatalf("status = %v, want valid: advisory only", got.Status)
	}
	if got.Message != "May sound like CRESTWOOD" {
		t.Fatalf("message = %q", got.Message)
	}
}

func TestValidateMissingTypeDominatesAdvisory(t *testing.T) {
	v, _, checker := newTestValidator(t, []string{"CRESTWOOD"})
	checker.Resp["Krestwood"] = &models.SimilarStreet{StreetName: "CRESTWOOD", Similar: true, MatchRatio: 1, NormalizedDistance: 0.1}

	got, err := v.Validate(context.Background(), "Krestwood", "")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Status != models.StatusInvalid || got.Message != MsgTypeRequired {
		t.Fatalf("got %+v, want type-required to win over the advisory", got)
	}
}

func TestValidateCheckerFailureDegrades(t *testing.T) {
	v, _, checker := newTestValidator(t, nil)
	checker.Err = errors.New("scanner stopped")

	got, err := v.Validate(context.Background(), "Maplewood", "AVE")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Status != models.StatusValid || got.Message != "" {
		t.Fatalf("got %+v, want clean valid result", got)
	}
}

func TestValidateCancelledContext(t *testing.T) {
	v, _, _ := newTestValidator(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := v.Validate(ctx, "Maplewood", "AVE"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
