package broadcast

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noticeRecorder captures everything the notice center sends.
type noticeRecorder struct {
	mu       sync.Mutex
	messages []any
}

func (r *noticeRecorder) send(_ string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, payload)
}

func (r *noticeRecorder) snapshot() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *noticeRecorder) clearCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, msg := range r.messages {
		if _, ok := msg.(NoticeClearMessage); ok {
			n++
		}
	}
	return n
}

func TestNoticeCenter_AutoDismiss(t *testing.T) {
	rec := &noticeRecorder{}
	center := NewNoticeCenter(rec.send, 100*time.Millisecond)

	center.Post("client-1", "Product added")

	msgs := rec.snapshot()
	require.Len(t, msgs, 1)
	notice, ok := msgs[0].(NoticeMessage)
	require.True(t, ok)
	assert.Equal(t, MessageTypeNotice, notice.Type)
	assert.Equal(t, "Product added", notice.Text)
	assert.Equal(t, 1, center.ActiveCount())

	// The clear must arrive once the window elapses.
	require.Eventually(t, func() bool {
		return rec.clearCount() == 1
	}, time.Second, 10*time.Millisecond)

	msgs = rec.snapshot()
	clear, ok := msgs[len(msgs)-1].(NoticeClearMessage)
	require.True(t, ok)
	assert.Equal(t, notice.ID, clear.ID)
	assert.Equal(t, 0, center.ActiveCount())
}

func TestNoticeCenter_SupersedeRestartsWindow(t *testing.T) {
	rec := &noticeRecorder{}
	center := NewNoticeCenter(rec.send, 200*time.Millisecond)

	center.Post("client-1", "first")
	time.Sleep(100 * time.Millisecond)
	center.Post("client-1", "second")

	// Past the first notice's original deadline: its clear must have been
	// abandoned, because the second notice superseded it.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, rec.clearCount())
	assert.Equal(t, 1, center.ActiveCount())

	// The second notice's own window still runs to completion.
	require.Eventually(t, func() bool {
		return rec.clearCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, center.ActiveCount())
}

func TestNoticeCenter_Drop(t *testing.T) {
	rec := &noticeRecorder{}
	center := NewNoticeCenter(rec.send, 50*time.Millisecond)

	center.Post("client-1", "pending")
	center.Drop("client-1")
	assert.Equal(t, 0, center.ActiveCount())

	// No clear is ever sent for a dropped client.
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 0, rec.clearCount())
}

func TestNoticeCenter_PostAll(t *testing.T) {
	rec := &noticeRecorder{}
	center := NewNoticeCenter(rec.send, 100*time.Millisecond)

	center.PostAll([]string{"a", "b", "c"}, "Stock updated")
	assert.Equal(t, 3, center.ActiveCount())
	require.Len(t, rec.snapshot(), 3)

	require.Eventually(t, func() bool {
		return rec.clearCount() == 3
	}, time.Second, 10*time.Millisecond)
}
