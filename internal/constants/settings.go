package constants

const (
	SettingBackendURL        = "backend_url"
	SettingRequestTimeoutSec = "request_timeout_sec"
	SettingSessionBackend    = "session_backend"
	SettingRateLimitRPS      = "rate_limit_rps"

	SessionBackendKeyring = "keyring"
	SessionBackendSQLite  = "sqlite"

	DefaultRequestTimeoutSec = 30
	DefaultSessionBackend    = SessionBackendKeyring
)
