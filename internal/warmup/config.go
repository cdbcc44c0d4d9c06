package warmup

import "time"

// Config holds configuration for a warmup run
type Config struct {
	BaseURL string        // Base URL of the running service
	Year    int           // Listing year; zero lets the service pick
	Passes  int           // How many times every resource is requested
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	LogFile string        // Optional log file, stdout only when empty
	Verbose bool          // Log every request
}

// Tournament is the subset of a listing entry the warmer needs.
type Tournament struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type listResponse struct {
	Tournaments []Tournament `json:"tournaments"`
	Year        int          `json:"year"`
	Total       int          `json:"total"`
}

// Stats holds run statistics
type Stats struct {
	Year        int
	Tournaments int
	Requested   int
	Hits        int
	Misses      int
	Failed      int
	Statuses    map[int]int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}
