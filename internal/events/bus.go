package events

import (
	"log/slog"
	"sync"
)

// Observer receives mitigation events. Observers run synchronously on
// the publishing goroutine; slow observers slow the pipeline, so keep
// them cheap or hand off internally.
type Observer func(*Event) error

// Bus fans events out to registered observers in registration order
type Bus struct {
	mu        sync.RWMutex
	observers []registration
	logger    *slog.Logger
}

type registration struct {
	name string
	fn   Observer
}

// NewBus creates an event bus. A nil logger falls back to slog.Default().
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger}
}

// Subscribe registers an observer under a name used in failure logs
func (b *Bus) Subscribe(name string, fn Observer) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, registration{name: name, fn: fn})
}

// Publish delivers an event to every observer. Observer errors and
// panics are logged and isolated per-observer.
func (b *Bus) Publish(evt *Event) {
	b.mu.RLock()
	observers := make([]registration, len(b.observers))
	copy(observers, b.observers)
	b.mu.RUnlock()

	for _, obs := range observers {
		b.deliver(obs, evt)
	}
}

func (b *Bus) deliver(obs registration, evt *Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("observer panicked",
				"observer", obs.name,
				"event", evt.Type,
				"component", evt.Result.ComponentID,
				"panic", r)
		}
	}()

	if err := obs.fn(evt); err != nil {
		b.logger.Error("observer failed",
			"observer", obs.name,
			"event", evt.Type,
			"component", evt.Result.ComponentID,
			"error", err)
	}
}
