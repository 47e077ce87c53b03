package models

// Settings represents persisted client settings
type Settings struct {
	BackendURL        string `json:"backend_url"`         // base URL of the scheduling service, e.g. "http://localhost:8080"
	RequestTimeoutSec int    `json:"request_timeout_sec"` // per-request timeout in seconds
	SessionBackend    string `json:"session_backend"`     // where the session is persisted: "keyring" or "sqlite"
	RateLimitRPS      int    `json:"rate_limit_rps"`      // outbound requests per second, 0 disables limiting
}
