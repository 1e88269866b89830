package constants

import "time"

var CacheTTL = struct {
	SocialStats  time.Duration
	SessionStore time.Duration
}{
	SocialStats:  30 * time.Minute, // per-handle audience numbers
	SessionStore: 24 * time.Hour,   // redis profile keys, refreshed on every write
}

var WebSocketConfig = struct {
	WriteTimeout time.Duration
	PongTimeout  time.Duration
	PingInterval time.Duration
	ReadLimit    int64
	SendBuffer   int
}{
	WriteTimeout: 10 * time.Second,
	PongTimeout:  60 * time.Second,
	PingInterval: 50 * time.Second, // must stay below PongTimeout
	ReadLimit:    512,
	SendBuffer:   32,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
	RateLimitTimeout time.Duration
}{
	FailureThreshold: 3,                // open after 3 consecutive failures
	ResetTimeout:     30 * time.Second, // default wait before a trial request
	RateLimitTimeout: 1 * time.Hour,    // quota exhausted or 429
}

var SocialConfig = struct {
	LookupConcurrency int
	ScraperTimeout    time.Duration
	UserAgent         string
	YouTubeParts      []string
}{
	LookupConcurrency: 3,
	ScraperTimeout:    15 * time.Second,
	UserAgent:         "Mozilla/5.0 (compatible; CollabHubBot/1.0)",
	YouTubeParts:      []string{"snippet", "statistics"},
}

var UploadLimits = struct {
	MaxFileSize        int64
	MaxMemory          int64
	MaxFilesPerSession int
}{
	MaxFileSize:        25 << 20,
	MaxMemory:          8 << 20,
	MaxFilesPerSession: 32,
}

var StringLimits = struct {
	LogBody     int
	ProviderMsg int
}{
	LogBody:     200,
	ProviderMsg: 120,
}
