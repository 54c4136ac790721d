package usecase

import (
	"log"
	"sync"

	pushdomain "pushgate-backend/internal/push/domain"
)

// Hooks is the lifecycle extension point of the registry: at most one
// callback per event kind, invoked synchronously after the state change has
// committed. Callbacks are best-effort; a panic is logged and swallowed so
// it can never undo the mutation it was attached to.
type Hooks struct {
	mu       sync.RWMutex
	handlers map[pushdomain.EventKind]func(pushdomain.Event)
}

// NewHooks creates an empty hook table.
func NewHooks() *Hooks {
	return &Hooks{
		handlers: make(map[pushdomain.EventKind]func(pushdomain.Event)),
	}
}

// On registers the callback for one event kind. Registering a second
// callback for the same kind replaces the first.
func (h *Hooks) On(kind pushdomain.EventKind, fn func(pushdomain.Event)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.handlers[kind]; exists {
		log.Printf("[Push] Replacing hook for %s", kind)
	}
	h.handlers[kind] = fn
}

// Emit invokes the callback registered for the event kind, if any.
func (h *Hooks) Emit(kind pushdomain.EventKind, ev pushdomain.Event) {
	h.mu.RLock()
	fn := h.handlers[kind]
	h.mu.RUnlock()
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Push] Hook %s panicked: %v", kind, r)
		}
	}()
	fn(ev)
}
