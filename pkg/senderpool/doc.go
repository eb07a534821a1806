// Package senderpool resolves the approved sender identities for a sending
// domain and caches them with a TTL, so the dispatch loop does not hit the
// identity directory on every message. Directory mutations invalidate the
// cache (write-through invalidation).
package senderpool
