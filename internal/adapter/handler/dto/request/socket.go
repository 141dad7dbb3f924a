package request

import "encoding/json"

const (
	EventRequestConfig = "request-config"
	EventBroadcast     = "broadcast"
)

// SocketMessage is the inbound envelope. Only the fields of the recognized
// events are decoded; anything else in the frame is ignored.
type SocketMessage struct {
	Event  string          `json:"event"`
	AlatID string          `json:"alatId,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}
