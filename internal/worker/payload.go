package worker

import "encoding/json"

// Notification defaults used when a push arrives with no payload, or with
// a payload that omits some fields.
const (
	DefaultTitle = "RemindSync"
	DefaultBody  = "You have a reminder."
	DefaultTag   = "remindsync-reminder"
)

// fixed short vibration pattern for the simplified handheld presentation
var handheldVibration = []int{200, 100, 200}

type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Notification is the fully resolved presentation handed to the Notifier.
type Notification struct {
	Title              string         `json:"title"`
	Body               string         `json:"body"`
	Tag                string         `json:"tag"`
	Actions            []Action       `json:"actions,omitempty"`
	RequireInteraction bool           `json:"requireInteraction"`
	Vibration          []int          `json:"vibrate,omitempty"`
	Data               map[string]any `json:"data,omitempty"`
}

// pushPayload mirrors the optional fields a push may carry. Every field is
// optional; whatever is present is merged over the defaults.
type pushPayload struct {
	Title *string        `json:"title"`
	Body  *string        `json:"body"`
	Tag   *string        `json:"tag"`
	Data  map[string]any `json:"data"`
}

// ParsePayload resolves a raw push payload against the defaults.
//
// An empty payload yields the full default notification. A payload that is
// not valid JSON becomes the notification body verbatim. A JSON payload is
// merged field-by-field over the defaults, so partial payloads are fine.
// A malformed payload never drops the notification.
func ParsePayload(raw []byte) Notification {
	n := Notification{Title: DefaultTitle, Body: DefaultBody, Tag: DefaultTag}

	if len(raw) == 0 {
		return n
	}

	var p pushPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		n.Body = string(raw)
		return n
	}

	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Body != nil {
		n.Body = *p.Body
	}
	if p.Tag != nil {
		n.Tag = *p.Tag
	}
	n.Data = p.Data
	return n
}

// Present applies the platform-specific variant. Handheld platforms have a
// known action-button limitation, so they get no actions and a simplified,
// attention-holding presentation instead: persistent until dismissed, with
// a short fixed vibration pattern. Everywhere else gets open/dismiss.
func Present(n Notification, handheld bool) Notification {
	if handheld {
		n.Actions = nil
		n.RequireInteraction = true
		n.Vibration = handheldVibration
		return n
	}
	n.Actions = []Action{
		{Action: "open", Title: "Open"},
		{Action: "dismiss", Title: "Dismiss"},
	}
	return n
}
