package notify

import (
	"sync"

	"github.com/sigweihq/web3provider/pkg/types"
)

// Recorder keeps every notification in memory
type Recorder struct {
	mu            sync.Mutex
	notifications []types.Notification
}

var _ Notifier = (*Recorder)(nil)

// Notify implements Notifier
func (r *Recorder) Notify(n types.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

// Notifications returns a copy of everything recorded so far
func (r *Recorder) Notifications() []types.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Notification(nil), r.notifications...)
}

// Kinds returns the recorded kinds in order
func (r *Recorder) Kinds() []types.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]types.NotificationKind, len(r.notifications))
	for i, n := range r.notifications {
		kinds[i] = n.Kind
	}
	return kinds
}

// Last returns the most recent notification
func (r *Recorder) Last() (types.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.notifications) == 0 {
		return types.Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}
