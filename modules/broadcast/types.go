package broadcast

// Message types pushed over the WebSocket.
const (
	MessageTypeSnapshot    = "snapshot"
	MessageTypeNotice      = "notice"
	MessageTypeNoticeClear = "notice_clear"
	MessageTypeError       = "error"
)

// SnapshotMessage carries a complete collection state. Always a full
// replacement of whatever the client held before, never a delta.
type SnapshotMessage struct {
	Type       string `json:"type"`
	Collection string `json:"collection"`
	Documents  any    `json:"documents"`
	Count      int    `json:"count"`
}

// NoticeMessage is a transient per-client notification.
type NoticeMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NoticeClearMessage tells a client to dismiss its active notice.
type NoticeClearMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// ErrorMessage reports a protocol-level problem to one client.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
