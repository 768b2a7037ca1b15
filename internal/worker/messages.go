package worker

// MessageType is the closed tag set of the channel between the delivery
// worker and foreground instances. The two sides share no memory; these
// messages are the only communication path.
type MessageType string

const (
	// worker → application
	MsgPushReceived        MessageType = "PUSH_RECEIVED"
	MsgNotificationClicked MessageType = "NOTIFICATION_CLICKED"

	// application → worker
	MsgSkipWaiting MessageType = "SKIP_WAITING"
	MsgGetVersion  MessageType = "GET_VERSION"
)

// Message is one tagged message on the channel.
type Message struct {
	Type MessageType    `json:"type"`
	Data map[string]any `json:"data,omitempty"`

	// Version is set on the reply to a GET_VERSION request.
	Version string `json:"version,omitempty"`
}
