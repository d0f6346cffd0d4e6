// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// AccessWindowGrace is how far outside the scheduled session window video
// access is still permitted (before the start and after the end).
const AccessWindowGrace = 15 * time.Minute

// AuditTokenSuffixLen is how many trailing characters of an access token are
// kept in audit records.
const AuditTokenSuffixLen = 8
