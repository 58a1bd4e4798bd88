package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Roles
const (
	RoleCandidate   = "CANDIDATE"
	RoleInterviewer = "INTERVIEWER"
	RoleAdmin       = "ADMIN"

	// RoleSystem marks transitions triggered internally (mutual-confirmation
	// promotion), never presented by a caller.
	RoleSystem = "SYSTEM"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Timeouts
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultTimeout        = 10 * time.Second
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist = "token:blacklist:"
	RedisKeyLoginAttempts  = "login:attempts:"
	RedisKeyNotifyChannel  = "notify:"
)

// Login throttling
const (
	MaxLoginAttempts   = 5
	LoginAttemptWindow = 15 * time.Minute
)

// Asynq task types
const (
	TaskNotificationDispatch = "notification:dispatch"
)

// Scheduler
const (
	PendingDigestCronSpec = "0 8 * * *" // daily at 08:00
	PendingDigestMinAge   = 24 * time.Hour
)
