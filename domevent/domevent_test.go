package domevent

import (
	"reflect"
	"testing"

	"github.com/emberweb/ember/dom"
)

func buildChain(t *testing.T) (*dom.Document, dom.NodeID, dom.NodeID, dom.NodeID) {
	t.Helper()
	doc := dom.NewDocument(dom.NoQuirks)
	a := doc.CreateElement(dom.HTML, "a", nil)
	b := doc.CreateElement(dom.HTML, "b", nil)
	c := doc.CreateElement(dom.HTML, "c", nil)
	doc.AppendChild(doc.Root, a)
	doc.AppendChild(a, b)
	doc.AppendChild(b, c)
	return doc, a, b, c
}

func TestDispatchOrder(t *testing.T) {
	doc, a, b, c := buildChain(t)
	reg := NewRegistry()
	var order []string

	reg.AddEventListener(a, "click", true, func(e *Event) { order = append(order, "cap-A") })
	reg.AddEventListener(b, "click", false, func(e *Event) { order = append(order, "bub-B") })
	reg.AddEventListener(c, "click", false, func(e *Event) { order = append(order, "bub-C") })

	ev := &Event{Type: "click", Bubbles: true, Cancelable: true}
	reg.Dispatch(doc, c, ev)

	want := []string{"cap-A", "bub-C", "bub-B"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestStopPropagationStillRunsCurrentNode(t *testing.T) {
	doc, a, b, c := buildChain(t)
	reg := NewRegistry()
	var order []string

	reg.AddEventListener(a, "click", true, func(e *Event) { order = append(order, "cap-A") })
	reg.AddEventListener(b, "click", false, func(e *Event) {
		order = append(order, "bub-B")
		e.StopPropagation()
	})
	reg.AddEventListener(c, "click", false, func(e *Event) { order = append(order, "bub-C") })

	ev := &Event{Type: "click", Bubbles: true, Cancelable: true}
	reg.Dispatch(doc, c, ev)

	want := []string{"cap-A", "bub-C", "bub-B"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestStopImmediatePropagation(t *testing.T) {
	doc, _, _, c := buildChain(t)
	reg := NewRegistry()
	ran := 0

	reg.AddEventListener(c, "click", false, func(e *Event) {
		ran++
		e.StopImmediatePropagation()
	})
	reg.AddEventListener(c, "click", false, func(e *Event) {
		ran++
	})

	ev := &Event{Type: "click", Bubbles: true, Cancelable: true}
	reg.Dispatch(doc, c, ev)

	if ran != 1 {
		t.Fatalf("ran = %d, want 1", ran)
	}
}

func TestPreventDefaultRequiresCancelable(t *testing.T) {
	doc, _, _, c := buildChain(t)
	reg := NewRegistry()
	reg.AddEventListener(c, "click", false, func(e *Event) { e.PreventDefault() })

	ev := &Event{Type: "click", Bubbles: true, Cancelable: false}
	ok := reg.Dispatch(doc, c, ev)
	if !ok {
		t.Fatalf("non-cancelable event should not be prevented")
	}

	ev2 := &Event{Type: "click", Bubbles: true, Cancelable: true}
	ok2 := reg.Dispatch(doc, c, ev2)
	if ok2 {
		t.Fatalf("cancelable event with PreventDefault should report false")
	}
}

func TestListenerAddedDuringDispatchDoesNotRunThisPass(t *testing.T) {
	doc, _, _, c := buildChain(t)
	reg := NewRegistry()
	ran := 0

	reg.AddEventListener(c, "click", false, func(e *Event) {
		ran++
		reg.AddEventListener(c, "click", false, func(e *Event) { ran++ })
	})

	ev := &Event{Type: "click", Bubbles: true}
	reg.Dispatch(doc, c, ev)
	if ran != 1 {
		t.Fatalf("ran = %d, want 1 (snapshot must exclude listeners added mid-dispatch)", ran)
	}

	ev2 := &Event{Type: "click", Bubbles: true}
	reg.Dispatch(doc, c, ev2)
	if ran != 3 {
		t.Fatalf("ran = %d, want 3 after second dispatch", ran)
	}
}
