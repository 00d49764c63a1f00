package constants

// System defaults used when neither the request nor the organization
// config specifies a value.
const (
	DefaultSlotDurationMinutes = 30
	DefaultBufferMinutes       = 0
	DefaultAdvanceWindowDays   = 30
)

// FreeBusyChunkSize is the provider hard limit on calendars per
// free/busy call. Larger person sets must be split into multiple calls.
const FreeBusyChunkSize = 50

// FreeBusyChunkTimeoutSeconds bounds each chunk fetch independently so a
// slow chunk cannot stall the rest of the batch.
const FreeBusyChunkTimeoutSeconds = 10

// BusyCacheTTLSeconds is how long aggregated busy intervals are served
// from cache before being refetched.
const BusyCacheTTLSeconds = 60

// MinLeadTimeMinutes: a candidate slot must start at least this far in
// the future to be bookable.
const MinLeadTimeMinutes = 1

// Database pool settings.
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Context keys.
const (
	ContextTokenData = "token_data"
)
