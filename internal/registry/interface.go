package registry

// Registry maps authenticated user IDs to their active transport session.
// At most one session per user: a new Register for the same user supersedes
// the previous one. Absence of an entry means the user is offline.
type Registry interface {
	// Register records sessionID as the user's active session, replacing any
	// previous session for that user.
	Register(userID, sessionID string)

	// Lookup returns the user's active session ID, if any.
	Lookup(userID string) (string, bool)

	// Unregister removes the user's entry only while it still points at
	// sessionID. A stale session torn down after a reconnect must not clear
	// the newer session's entry.
	Unregister(userID, sessionID string)
}
