package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Token lifetimes
const (
	AccessTokenTTL  = 1 * time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist = "token:blacklist:"
	RedisKeyOAuthState     = "oauth:state:"
)

// OAuthStateTTL bounds how long a login attempt may sit between the
// redirect to Google and the callback.
const OAuthStateTTL = 10 * time.Minute

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Pagination defaults
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)

// Share codes are short enough for a URL users will paste into chats.
const ShareCodeLength = 10

// Image upload limits
const (
	MaxImageSizeBytes = 5 << 20 // 5 MiB
	S3KeyPrefixEvents = "events/"
)

// Asynq task types
const (
	TaskTypeImageCleanup = "image:cleanup"
)
