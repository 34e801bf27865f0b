package preview

import (
	"github.com/ironsheep/image-preview/internal/event"
	"go.trai.ch/zerr"
)

// EventName identifies a lifecycle extension point.
type EventName string

const (
	// BeforeOpen fires before the source is opened. Handlers may rewrite
	// Event.Filename; the new name is what gets opened and fingerprinted.
	BeforeOpen EventName = "beforeOpen"

	// AfterOpen fires once the source (or the default preview) is decoded.
	AfterOpen EventName = "afterOpen"

	// BeforeSave fires once per actual encode, never on a cache hit.
	// Event.Filename is the cache path about to be written.
	BeforeSave EventName = "beforeSave"

	// AfterSave fires after the file is published and its mode applied.
	// A handler error is returned from Cache but the file stays in place and
	// is not announced again.
	AfterSave EventName = "afterSave"
)

// Event is the payload passed to lifecycle handlers.
type Event struct {
	// Filename is the source path for open events and the cache file path
	// for save events.
	Filename string `json:"filename"`

	// Extension is the lowercased extension of Filename without the dot.
	Extension string `json:"extension"`
}

// HookFunc handles a lifecycle event. Returning an error aborts the
// operation that fired the event.
type HookFunc func(e *Event) error

// Registration identifies a registered hook.
type Registration struct {
	handle event.Handle
}

// Hooks is the per-service registry of lifecycle handlers. Handlers run
// synchronously, in registration order, on the calling goroutine.
type Hooks struct {
	registry *event.Registry[*Event]
}

// NewHooks returns an empty registry.
func NewHooks() *Hooks {
	return &Hooks{registry: event.NewRegistry[*Event]()}
}

// On registers fn for the named event.
func (h *Hooks) On(name EventName, fn HookFunc) Registration {
	return Registration{handle: h.registry.On(string(name), event.Handler[*Event](fn))}
}

// Off removes a registration. It reports whether anything was removed.
func (h *Hooks) Off(r Registration) bool {
	return h.registry.Off(r.handle)
}

// Count returns the number of handlers registered for name.
func (h *Hooks) Count(name EventName) int {
	return h.registry.Len(string(name))
}

func (h *Hooks) trigger(name EventName, e *Event) error {
	if err := h.registry.Trigger(string(name), e); err != nil {
		wrapped := zerr.Wrap(err, string(name)+" handler failed")
		return zerr.With(zerr.With(wrapped, "event", string(name)), "filename", e.Filename)
	}
	return nil
}
