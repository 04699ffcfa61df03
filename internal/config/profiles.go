package config

import "time"

const (
	ProfileDefault = "default"
	ProfileTest    = "test"
)

// Profile holds the tunables that change between a normal run and a quick
// test run against a small friend list.
type Profile struct {
	RequestDelay           time.Duration
	MaxAttempts            int
	RetryDelay             time.Duration
	BatchSize              int
	MaxFailedRequests      int
	MaxConsecutiveFailures int
	RequestTimeout         time.Duration
	ProcessAllPeers        bool
	BatchCooldown          time.Duration
}

var profiles = map[string]Profile{
	ProfileDefault: {
		RequestDelay:           2 * time.Second,
		MaxAttempts:            3,
		RetryDelay:             7 * time.Second,
		BatchSize:              5,
		MaxFailedRequests:      5,
		MaxConsecutiveFailures: 3,
		RequestTimeout:         30 * time.Second,
		ProcessAllPeers:        true,
		BatchCooldown:          3 * time.Second,
	},
	ProfileTest: {
		RequestDelay:           time.Second,
		MaxAttempts:            3,
		RetryDelay:             5 * time.Second,
		BatchSize:              5,
		MaxFailedRequests:      3,
		MaxConsecutiveFailures: 2,
		RequestTimeout:         30 * time.Second,
		ProcessAllPeers:        false,
		BatchCooldown:          3 * time.Second,
	},
}

func LookupProfile(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}
