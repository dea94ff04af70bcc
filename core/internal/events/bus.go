package events

import (
	"sync"

	"go.uber.org/zap"
)

const (
	RecordHarvested = "record.harvested"
	BatchCompleted  = "batch.completed"
)

type Handler func(name string, payload any)

// Bus is a small in-process publish/subscribe registry. Subscribers are
// registered at startup; a panicking subscriber never breaks siblings or
// the publisher.
type Bus struct {
	log *zap.Logger

	mu   sync.RWMutex
	subs map[string][]Handler
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{log: log, subs: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[name] = append(b.subs[name], h)
}

func (b *Bus) Publish(name string, payload any) {
	b.mu.RLock()
	handlers := b.subs[name]
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(name, payload, h)
	}
}

func (b *Bus) dispatch(name string, payload any, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("event subscriber panicked",
				zap.String("event", name),
				zap.Any("panic", r))
		}
	}()
	h(name, payload)
}
