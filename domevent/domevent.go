// Package domevent implements three-phase (capture/target/bubble) event
// dispatch over a [dom.Document]. Listeners on a node run in
// registration order, and listener lists are snapshotted per dispatch so
// in-flight handlers can add or remove listeners safely.
package domevent

import "github.com/emberweb/ember/dom"

// Phase identifies which leg of dispatch is currently running.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseCapturing
	PhaseAtTarget
	PhaseBubbling
)

// Event is the mutable record passed to listeners. It is created by the
// caller, populated by Dispatch, and discarded afterward.
type Event struct {
	Type      string
	Target    dom.NodeID
	Current   dom.NodeID
	Phase     Phase
	Bubbles   bool
	Cancelable bool

	defaultPrevented       bool
	propagationStopped     bool
	immediatePropStopped   bool
}

// PreventDefault marks the event's default action as cancelled. It is a
// no-op unless the event is cancelable.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation halts traversal beyond the current node; listeners already
// registered on the current node still run to completion.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// StopImmediatePropagation halts traversal and also stops any remaining
// listeners on the current node.
func (e *Event) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediatePropStopped = true
}

// Listener is an opaque invocable receiving the mutable event.
type Listener func(*Event)

type registration struct {
	id      uint64
	evType  string
	capture bool
	fn      Listener
}

// Registry maps node handles to their registered listeners. It is keyed
// externally so it can be owned alongside the DOM arena rather than
// embedded in the node struct.
type Registry struct {
	byNode map[dom.NodeID][]registration
	nextID uint64
}

// NewRegistry returns an empty listener registry.
func NewRegistry() *Registry {
	return &Registry{byNode: make(map[dom.NodeID][]registration)}
}

// ListenerHandle identifies a previously-added listener for removal.
type ListenerHandle struct {
	node dom.NodeID
	id   uint64
}

// AddEventListener registers fn for evType on node, running during the
// capture phase if capture is true, otherwise during at-target/bubble.
func (r *Registry) AddEventListener(node dom.NodeID, evType string, capture bool, fn Listener) ListenerHandle {
	r.nextID++
	reg := registration{id: r.nextID, evType: evType, capture: capture, fn: fn}
	r.byNode[node] = append(r.byNode[node], reg)
	return ListenerHandle{node: node, id: reg.id}
}

// RemoveEventListener removes a previously-registered listener. It is a
// no-op if the handle no longer refers to a registered listener.
func (r *Registry) RemoveEventListener(h ListenerHandle) {
	regs := r.byNode[h.node]
	for i, reg := range regs {
		if reg.id == h.id {
			r.byNode[h.node] = append(regs[:i], regs[i+1:]...)
			return
		}
	}
}

// snapshot returns a copy of node's listener list at the instant it is
// called, so that listeners mutating the registry mid-dispatch cannot
// perturb the in-flight traversal.
func (r *Registry) snapshot(node dom.NodeID) []registration {
	regs := r.byNode[node]
	if len(regs) == 0 {
		return nil
	}
	out := make([]registration, len(regs))
	copy(out, regs)
	return out
}

// Dispatch runs the capture/target/bubble algorithm and
// returns whether the event's default action should proceed (i.e. it was
// not cancelled).
func (r *Registry) Dispatch(doc *dom.Document, target dom.NodeID, ev *Event) bool {
	ev.Target = target

	ancestors := doc.Ancestors(target)
	path := make([]dom.NodeID, len(ancestors))
	for i, a := range ancestors {
		path[len(ancestors)-1-i] = a
	}
	path = append(path, target)

	// Capture phase: root .. parent(target), capture-flagged listeners only.
	for i := 0; i < len(path)-1 && !ev.propagationStopped; i++ {
		node := path[i]
		ev.Phase = PhaseCapturing
		ev.Current = node
		for _, reg := range r.snapshot(node) {
			if reg.evType != ev.Type || !reg.capture {
				continue
			}
			reg.fn(ev)
			if ev.immediatePropStopped {
				break
			}
		}
	}

	// At-target: every matching listener, capture and bubble alike, in
	// registration order.
	ev.Phase = PhaseAtTarget
	ev.Current = target
	for _, reg := range r.snapshot(target) {
		if reg.evType != ev.Type {
			continue
		}
		reg.fn(ev)
		if ev.immediatePropStopped {
			break
		}
	}

	// Bubble phase: parent(target) .. root, non-capture listeners only.
	if ev.Bubbles && !ev.propagationStopped {
		for i := len(path) - 2; i >= 0 && !ev.propagationStopped; i-- {
			node := path[i]
			ev.Phase = PhaseBubbling
			ev.Current = node
			for _, reg := range r.snapshot(node) {
				if reg.evType != ev.Type || reg.capture {
					continue
				}
				reg.fn(ev)
				if ev.immediatePropStopped {
					break
				}
			}
		}
	}

	ev.Phase = PhaseNone
	ev.Current = dom.NodeID{}
	return !ev.defaultPrevented
}
