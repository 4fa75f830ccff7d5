package event

type Type string

const (
	TypeRowCreated Type = "row.created"
	TypeRowUpdated Type = "row.updated"
	TypeRowDeleted Type = "row.deleted"
)

// Action is the short verb recorded in the activity log.
func (t Type) Action() string {
	switch t {
	case TypeRowCreated:
		return "created"
	case TypeRowUpdated:
		return "updated"
	case TypeRowDeleted:
		return "deleted"
	default:
		return string(t)
	}
}

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Resource  string `json:"resource"`
	RecordID  string `json:"record_id"`
	Label     string `json:"label,omitempty"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe(name string) (<-chan Event, func()) // channel plus unsubscribe
}
