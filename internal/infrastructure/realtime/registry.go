package realtime

// Registry is the fan-out component's view of live connections. The default
// implementation is the process-local Router; a multi-instance deployment
// provides a shared or pub/sub-relayed implementation without touching the
// fan-out code.
type Registry interface {
	// NotifyUser delivers payload to the user's current connection and
	// reports whether a live connection accepted it.
	NotifyUser(userID string, payload []byte) bool

	// IsOnline reports whether the user currently has a live connection.
	IsOnline(userID string) bool
}
