package broadcast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultNoticeWindow is how long a notice stays up before it is cleared.
const DefaultNoticeWindow = 4 * time.Second

// NoticeCenter manages transient per-client notices. Each client has at
// most one active notice; posting a new one supersedes the old and restarts
// the dismiss timer.
type NoticeCenter struct {
	send   func(clientID string, payload any)
	window time.Duration

	mu     sync.Mutex
	active map[string]*activeNotice // clientID -> active notice
}

type activeNotice struct {
	id    string
	timer *time.Timer
}

// NewNoticeCenter creates a NoticeCenter that delivers through send. A
// non-positive window falls back to the default.
func NewNoticeCenter(send func(clientID string, payload any), window time.Duration) *NoticeCenter {
	if window <= 0 {
		window = DefaultNoticeWindow
	}
	return &NoticeCenter{
		send:   send,
		window: window,
		active: make(map[string]*activeNotice),
	}
}

// Post shows a notice to one client. Any previous notice for that client is
// superseded and its dismiss timer abandoned; the window restarts from now.
func (n *NoticeCenter) Post(clientID, text string) {
	n.mu.Lock()

	if prev, ok := n.active[clientID]; ok {
		prev.timer.Stop()
	}

	noticeID := uuid.New().String()
	notice := &activeNotice{id: noticeID}
	notice.timer = time.AfterFunc(n.window, func() {
		n.clear(clientID, noticeID)
	})
	n.active[clientID] = notice
	n.mu.Unlock()

	n.send(clientID, NoticeMessage{
		Type: MessageTypeNotice,
		ID:   noticeID,
		Text: text,
	})
}

// PostAll shows the same notice to every listed client. Each client gets
// its own notice ID and dismiss timer.
func (n *NoticeCenter) PostAll(clientIDs []string, text string) {
	for _, id := range clientIDs {
		n.Post(id, text)
	}
}

// clear dismisses a notice when its window elapses. A notice that was
// already superseded is left alone.
func (n *NoticeCenter) clear(clientID, noticeID string) {
	n.mu.Lock()
	current, ok := n.active[clientID]
	if !ok || current.id != noticeID {
		n.mu.Unlock()
		return
	}
	delete(n.active, clientID)
	n.mu.Unlock()

	n.send(clientID, NoticeClearMessage{
		Type: MessageTypeNoticeClear,
		ID:   noticeID,
	})
}

// Drop forgets a client's notice state without sending anything. Called
// when the client disconnects.
func (n *NoticeCenter) Drop(clientID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if notice, ok := n.active[clientID]; ok {
		notice.timer.Stop()
		delete(n.active, clientID)
	}
}

// ActiveCount returns the number of clients with an active notice.
func (n *NoticeCenter) ActiveCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.active)
}
