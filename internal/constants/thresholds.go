package constants

// Centralized threshold values used across the engine.
// Keep these stable; change deliberately and document why.
// These are not configuration knobs; use pkg/config for env-driven settings.

const (
	// Similarity matcher bounds (inclusive). The loose bound only applies
	// when both word-level phonetic signals already agree.
	TightDistanceBound = 0.25
	LooseDistanceBound = 0.35

	// Words shorter than this carry too little phonetic signal and are
	// skipped during tokenization; whole names shorter than this are never
	// similar to anything.
	MinPhoneticWordLen = 3

	// Naming rules
	MinWordLength = 3
	MaxWordCount  = 2

	// Circuit breaker rate thresholds for the upstream dataset
	CircuitFailureRate  = 0.6
	CircuitSlowCallRate = 0.7
)
