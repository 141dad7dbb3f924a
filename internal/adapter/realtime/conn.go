package realtime

// Conn is one open device connection as seen by the registry and the hub.
// Implementations must be comparable; identity is value equality.
type Conn interface {
	ID() string
	// Send queues msg as a text frame. It never blocks.
	Send(msg []byte) error
	IsOpen() bool
}
