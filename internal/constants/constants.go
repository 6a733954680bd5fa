package constants

import "time"

// Context keys set by middleware and read by handlers.
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "current_user"
	ContextKeyClaims = "token_claims"
	ContextKeyTask   = "task"
)

const (
	// SessionCookieName holds the short-lived OAuth state session.
	SessionCookieName    = "taskflow_session"
	SessionKeyOAuthState = "oauth_state"
	OAuthStateMaxAge     = 10 * time.Minute

	RequestIDHeader = "X-Request-ID"
	BearerPrefix    = "Bearer "
)

const (
	MaxAISuggestedTasks = 10

	ReadRetryAttempts  = 3
	ReadRetryBaseDelay = 50 * time.Millisecond
)

// Redis key prefixes.
const (
	RedisKeyRevokedToken = "taskflow:revoked_token:"
	RedisKeyPreferences  = "taskflow:user_prefs:"
)
