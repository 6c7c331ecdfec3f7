package scanner

import (
	"context"
	"sync"
	"testing"
	"time"

	"street-name-validation/pkg/logging"
)

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	log, err := logging.NewLogger(logging.LogConfig{Level: logging.LevelError, Format: "text", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	s := New(log, 16)
	s.Start()
	t.Cleanup(func() { _ = s.Stop(2 * time.Second) })
	return s
}

func TestCheckNoCorpus(t *testing.T) {
	s := newTestScanner(t)
	v, err := s.Check(context.Background(), "Maple")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if v != nil {
		t.Fatalf("expected no verdict against empty corpus, got %+v", v)
	}
}

func TestFirstMatchWins(t *testing.T) {
	s := newTestScanner(t)
	// Both entries sound like the candidate; the scan must report the first
	// in stored order, not the best.
	s.ReplaceCorpus([]string{"CRESTWOOD", "KRESTWOOD"})

	v, err := s.Check(context.Background(), "Crestwod")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if v == nil || !v.Similar {
		t.Fatalf("expected a similar verdict, got %+v", v)
	}
	if v.StreetName != "CRESTWOOD" {
		t.Fatalf("expected first-match CRESTWOOD, got %q", v.StreetName)
	}
}

func TestReplaceCorpusTakesEffect(t *testing.T) {
	s := newTestScanner(t)
	s.ReplaceCorpus([]string{"ZEBRA"})
	if v, err := s.Check(context.Background(), "Crestwood"); err != nil || v != nil {
		t.Fatalf("expected no match before replace, got %+v, %v", v, err)
	}
	s.ReplaceCorpus([]string{"KRESTWOOD"})
	v, err := s.Check(context.Background(), "Crestwood")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if v == nil || v.StreetName != "KRESTWOOD" {
		t.Fatalf("expected match against replaced corpus, got %+v", v)
	}
}

func TestInterleavedChecks(t *testing.T) {
	s := newTestScanner(t)
	s.ReplaceCorpus([]string{"CRESTWOOD", "MAPLE", "WILLOW"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "Crestwood"
			wantMatch := true
			if i%2 == 1 {
				name = "Quixotic"
				wantMatch = false
			}
			v, err := s.Check(context.Background(), name)
			if err != nil {
				t.Errorf("check %d: %v", i, err)
				return
			}
			if wantMatch && (v == nil || v.StreetName != "CRESTWOOD") {
				t.Errorf("check %d: expected CRESTWOOD, got %+v", i, v)
			}
			if !wantMatch && v != nil {
				t.Errorf("check %d: expected no match, got %+v", i, v)
			}
		}(i)
	}
	wg.Wait()
}

func TestCheckRespectsCancellation(t *testing.T) {
	s := newTestScanner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Check(ctx, "Maple"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestCheckAfterStop(t *testing.T) {
	log, _ := logging.NewLogger(logging.LogConfig{Level: logging.LevelError, Format: "text", Output: "stderr"})
	s := New(log, 4)
	s.Start()
	if err := s.Stop(2 * time.Second); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := s.Check(context.Background(), "Maple"); err == nil {
		t.Fatal("expected error after stop")
	}
}
