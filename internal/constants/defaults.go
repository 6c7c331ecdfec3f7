package constants

import "time"

// Centralized default values for timeouts, intervals, and related settings.
// These provide sane defaults; environment/config may override where supported.

const (
	// Database
	DBReadTimeoutDefault  = 8 * time.Second
	DBWriteTimeoutDefault = 6 * time.Second

	// Upstream street dataset (corpus delta query, exact-match lookup)
	LookupOperationTimeout  = 5 * time.Second
	LookupOpenFor           = 30 * time.Second
	LookupSlowCallThreshold = 1500 * time.Millisecond
	RefreshOperationTimeout = 30 * time.Second

	// Exact-match lookup memoization
	LookupCacheTTL     = 10 * time.Minute
	LookupCacheCleanup = 30 * time.Minute

	// Validation engine
	DebounceDelayDefault = 400 * time.Millisecond

	// Similarity search worker
	ScannerQueueSizeDefault = 64
	ScannerCheckTimeout     = 10 * time.Second

	// Health
	HealthTimeoutDefault = 30 * time.Second

	// App shutdown
	GracefulShutdownTimeoutDefault = 10 * time.Second
)

// Corpus snapshot store keys and the watermark date layout. The layout is
// MM/DD/YYYY to stay compatible with snapshots written by earlier deployments.
const (
	CorpusNamesKey     = "street_names"
	CorpusWatermarkKey = "street_names_updated"
	WatermarkLayout    = "01/02/2006"
)
