package similarity

import (
	"math/rand"
	"testing"
)

func TestDistanceBasics(t *testing.T) {
	if d := Distance("maple", "maple"); d != 0 {
		t.Fatalf("Distance(x,x) = %d, want 0", d)
	}
	if d := Distance("maple", "mapel"); d != 2 {
		t.Fatalf("Distance(maple,mapel) = %d, want 2", d)
	}
	if d := Distance("", "oak"); d != 3 {
		t.Fatalf("Distance(\"\",oak) = %d, want 3", d)
	}
}

func TestNormalizedDistanceIdentity(t *testing.T) {
	for _, s := range []string{"maple", "northbay", "x", "oakhollow"} {
		if nd := NormalizedDistance(s, s); nd != 0 {
			t.Fatalf("NormalizedDistance(%q,%q) = %v, want 0", s, s, nd)
		}
	}
}

func TestNormalizedDistanceEmptyGuard(t *testing.T) {
	if nd := NormalizedDistance("", ""); nd != 0 {
		t.Fatalf("NormalizedDistance of empty strings = %v, want 0", nd)
	}
}

func TestShortNamesNeverSimilar(t *testing.T) {
	for _, short := range []string{"", "a", "yo", "  ab  "} {
		v := SoundsSimilar(short, "Maple")
		if v.Similar {
			t.Fatalf("expected %q to never be similar", short)
		}
		if v.NormalizedDistance != 1 || v.MatchRatio != 0 {
			t.Fatalf("expected short-name sentinel verdict, got %+v", v)
		}
		if v2 := SoundsSimilar("Maple", short); v2.Similar {
			t.Fatalf("expected anything vs %q to never be similar", short)
		}
	}
}

func TestSoundsSimilarCloseSpelling(t *testing.T) {
	v := SoundsSimilar("Crestwood", "Krestwood")
	if !v.Similar {
		t.Fatalf("expected Crestwood/Krestwood similar, got %+v", v)
	}
	if v.MatchRatio != 1 {
		t.Fatalf("expected binary match ratio 1, got %v", v.MatchRatio)
	}
	if v.StreetName != "Krestwood" {
		t.Fatalf("verdict must carry the matched-against name, got %q", v.StreetName)
	}
}

func TestSoundsSimilarRejectsDistantSpelling(t *testing.T) {
	// Phonetics alone must not trigger a match when the edit distance is
	// well past the loose bound.
	v := SoundsSimilar("Maple", "Mapleshade Hollow")
	if v.Similar {
		t.Fatalf("expected large-distance pair not similar, got %+v", v)
	}
}

func TestSoundsSimilarUnrelated(t *testing.T) {
	v := SoundsSimilar("Maple", "Oak")
	if v.Similar {
		t.Fatalf("expected Maple/Oak not similar, got %+v", v)
	}
}

func TestSpaceCollapsedComparison(t *testing.T) {
	v := SoundsSimilar("North Bay", "Northbay")
	if v.NormalizedDistance != 0 {
		t.Fatalf("expected zero distance for space-collapsed equal names, got %v", v.NormalizedDistance)
	}
}

// The pairwise matcher itself is symmetric: phonetic and edit-distance
// computations are order-independent even though the corpus scan that uses it
// is first-match-wins.
func TestSoundsSimilarSymmetric(t *testing.T) {
	words := []string{
		"Maple", "Mapel", "Oak Hollow", "Oakhollow", "Crestwood", "Krestwood",
		"Birchwood", "Cedar Point", "Sedar Point", "Willow", "Willoe",
		"Fox Run", "Foxrun", "Stonebridge", "Stone Bridge",
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		a := words[rng.Intn(len(words))]
		b := words[rng.Intn(len(words))]
		va := SoundsSimilar(a, b)
		vb := SoundsSimilar(b, a)
		if va.Similar != vb.Similar {
			t.Fatalf("SoundsSimilar not symmetric for %q / %q: %+v vs %+v", a, b, va, vb)
		}
		if va.NormalizedDistance != vb.NormalizedDistance {
			t.Fatalf("distance not symmetric for %q / %q", a, b)
		}
	}
}
