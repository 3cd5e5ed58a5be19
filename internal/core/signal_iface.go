package core

// Frame is a raw encoded wire message.
type Frame []byte

// SignalConnection abstracts the per-connection messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues a frame without blocking. It fails when the
	// connection cannot keep up (backpressure) or is closed.
	TrySend(Frame) error
	Close()
}
