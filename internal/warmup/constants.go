package warmup

import "time"

// Resource paths requested for every tournament code.
var resourcePaths = []string{
	"/api/tournament/%s",
	"/api/tournament/%s/schedule",
	"/api/tournament/%s/results",
}

// Cache header values reported by the service.
const (
	cacheHit  = "HIT"
	cacheMiss = "MISS"
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	ProgressInterval        = time.Second
)
