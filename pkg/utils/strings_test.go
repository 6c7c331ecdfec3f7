package utils

import "testing"

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"main":          "Main",
		"NORTH BAY":     "North Bay",
		"oAk  hOLLOW":   "Oak  Hollow",
		"":              "",
		"two words ave": "Two Words Ave",
	}
	for in, want := range cases {
		if got := TitleCase(in); got != want {
			t.Fatalf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	if NormalizeKey("maple ") != NormalizeKey("Maple") {
		t.Fatal("expected trailing-space, mixed-case variants to share a key")
	}
	if NormalizeKey("Maplewood") == NormalizeKey("Maple") {
		t.Fatal("substrings must not collide")
	}
	if got := NormalizeKey("North Bay"); got != "NORTHBAY" {
		t.Fatalf("NormalizeKey = %q, want NORTHBAY", got)
	}
}

func TestJoinSquashed(t *testing.T) {
	if JoinSquashed("North Bay") != JoinSquashed("Northbay") {
		t.Fatal("expected squashed forms to be equal")
	}
	if got := JoinSquashed("  Oak  Hollow "); got != "oakhollow" {
		t.Fatalf("JoinSquashed = %q, want oakhollow", got)
	}
}

func TestCollapseSpaces(t *testing.T) {
	if got := CollapseSpaces("  a   b  "); got != "a b" {
		t.Fatalf("CollapseSpaces = %q, want %q", got, "a b")
	}
}
