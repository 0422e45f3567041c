package subdev

import (
	"fmt"
	"sync"
)

// MediaDevice is the published view of an assembled pipeline: the set of
// registered entities and the links wired between them. It starts
// unregistered; the completion sequence registers it once link assembly
// has succeeded, after which the graph is externally queryable.
type MediaDevice struct {
	mu         sync.RWMutex
	model      string
	registered bool
	entities   []*Entity
	links      []*Link
}

// NewMediaDevice returns an empty, unregistered media device.
func NewMediaDevice(model string) *MediaDevice {
	return &MediaDevice{model: model}
}

// Model returns the device model name.
func (m *MediaDevice) Model() string { return m.model }

// AddEntity records a bound entity on the device. Adding the same entity
// twice is idempotent.
func (m *MediaDevice) AddEntity(e *Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, have := range m.entities {
		if have == e {
			return
		}
	}
	m.entities = append(m.entities, e)
}

// CreateLink wires one enabled link from a source pad to a sink pad. Pad
// indices are validated against the entities and the pad directions must
// agree with the link direction; a mismatch fails the creation.
func (m *MediaDevice) CreateLink(source *Entity, sourcePad int, sink *Entity, sinkPad int) (*Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sourcePad < 0 || sourcePad >= len(source.Pads) {
		return nil, fmt.Errorf("media: no pad %d on entity %q", sourcePad, source.Name)
	}
	if sinkPad < 0 || sinkPad >= len(sink.Pads) {
		return nil, fmt.Errorf("media: no pad %d on entity %q", sinkPad, sink.Name)
	}
	if source.Pads[sourcePad].Sink {
		return nil, fmt.Errorf("media: pad %q:%d is not a source pad", source.Name, sourcePad)
	}
	if !sink.Pads[sinkPad].Sink {
		return nil, fmt.Errorf("media: pad %q:%d is not a sink pad", sink.Name, sinkPad)
	}

	link := &Link{
		Source:    source,
		SourcePad: sourcePad,
		Sink:      sink,
		SinkPad:   sinkPad,
		Enabled:   true,
	}
	m.links = append(m.links, link)
	return link, nil
}

// Register publishes the device. Registering twice is an error.
func (m *MediaDevice) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registered {
		return fmt.Errorf("media: device %q already registered", m.model)
	}
	m.registered = true
	return nil
}

// Unregister withdraws the device from external view.
func (m *MediaDevice) Unregister() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered = false
}

// Registered reports whether the device has been published.
func (m *MediaDevice) Registered() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registered
}

// Entities returns the registered entities in registration order.
func (m *MediaDevice) Entities() []*Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Entity, len(m.entities))
	copy(out, m.entities)
	return out
}

// Links returns the created links in creation order.
func (m *MediaDevice) Links() []*Link {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Link, len(m.links))
	copy(out, m.links)
	return out
}

// LookupEntity finds a registered entity by its (possibly disambiguated)
// display name.
func (m *MediaDevice) LookupEntity(name string) (*Entity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}
