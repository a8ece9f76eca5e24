package notify

import (
	"github.com/google/uuid"
	"github.com/sigweihq/web3provider/pkg/types"
)

// Notifier receives user-facing notifications
// Rendering them is up to the host application
type Notifier interface {
	Notify(n types.Notification)
}

// New builds a notification with a fresh id
func New(kind types.NotificationKind, message string, link *types.Link) types.Notification {
	return types.Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
		Link:    link,
	}
}

// Discard drops every notification
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(types.Notification) {}
