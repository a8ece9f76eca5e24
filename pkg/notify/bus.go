package notify

import (
	"log/slog"

	evbus "github.com/asaskevich/EventBus"
	"github.com/sigweihq/web3provider/pkg/types"
)

const (
	topicPrefix = "notification:"

	// AllKinds subscribes a handler to every notification kind
	AllKinds types.NotificationKind = "*"
)

// Bus publishes notifications to subscribers keyed by kind
// Handlers have the signature func(types.Notification)
type Bus struct {
	bus    evbus.Bus
	logger *slog.Logger
}

// NewBus creates an empty notification bus
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		bus:    evbus.New(),
		logger: logger,
	}
}

var _ Notifier = (*Bus)(nil)

// Notify implements Notifier
func (b *Bus) Notify(n types.Notification) {
	b.logger.Debug("notification", "id", n.ID, "kind", n.Kind, "message", n.Message)
	b.bus.Publish(topic(n.Kind), n)
	b.bus.Publish(topic(AllKinds), n)
}

// Success publishes a success notification
func (b *Bus) Success(message string, link *types.Link) types.Notification {
	return b.publish(types.NotificationSuccess, message, link)
}

// Warning publishes a warning notification
func (b *Bus) Warning(message string, link *types.Link) types.Notification {
	return b.publish(types.NotificationWarning, message, link)
}

// Error publishes an error notification
func (b *Bus) Error(message string, link *types.Link) types.Notification {
	return b.publish(types.NotificationError, message, link)
}

// Processing publishes a processing notification
func (b *Bus) Processing(message string, link *types.Link) types.Notification {
	return b.publish(types.NotificationProcessing, message, link)
}

// Subscribe registers a synchronous handler for a kind, or AllKinds
func (b *Bus) Subscribe(kind types.NotificationKind, handler func(types.Notification)) error {
	return b.bus.Subscribe(topic(kind), handler)
}

// SubscribeAsync registers a handler that runs on its own goroutine per notification
func (b *Bus) SubscribeAsync(kind types.NotificationKind, handler func(types.Notification)) error {
	return b.bus.SubscribeAsync(topic(kind), handler, false)
}

// Unsubscribe removes a handler
// Handlers are matched by function identity, so two closures built from the same
// function literal cannot be told apart
func (b *Bus) Unsubscribe(kind types.NotificationKind, handler func(types.Notification)) error {
	return b.bus.Unsubscribe(topic(kind), handler)
}

// HasSubscribers reports whether any handler listens to the kind
func (b *Bus) HasSubscribers(kind types.NotificationKind) bool {
	return b.bus.HasCallback(topic(kind))
}

// WaitAsync blocks until all asynchronous handlers have returned
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}

func (b *Bus) publish(kind types.NotificationKind, message string, link *types.Link) types.Notification {
	n := New(kind, message, link)
	b.Notify(n)
	return n
}

func topic(kind types.NotificationKind) string {
	return topicPrefix + string(kind)
}
