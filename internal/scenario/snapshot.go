package scenario

import (
	"time"

	"github.com/vango-dev/floatkit/pkg/dom"
)

// Snapshot is the observable state of a session's page.
type Snapshot struct {
	Scenario     string                     `json:"scenario"`
	Next         int                        `json:"next"`
	Steps        int                        `json:"steps"`
	Clock        time.Duration              `json:"clock"`
	Focus        string                     `json:"focus,omitempty"`
	ScrollLocked bool                       `json:"scrollLocked"`
	Widgets      map[string]WidgetSnapshot  `json:"widgets"`
	Elements     map[string]ElementSnapshot `json:"elements"`
}

// WidgetSnapshot is the state of one widget.
type WidgetSnapshot struct {
	Kind    string `json:"kind"`
	Open    bool   `json:"open"`
	Visible bool   `json:"visible"`
	State   string `json:"state"`
	Trigger string `json:"trigger,omitempty"`
	Poppers int    `json:"poppers"`
}

// ElementSnapshot is the state of one declared element.
type ElementSnapshot struct {
	Tag       string            `json:"tag"`
	Parent    string            `json:"parent,omitempty"`
	Connected bool              `json:"connected"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Style     map[string]string `json:"style,omitempty"`
}

// Snapshot captures the current page state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.page
	snap := Snapshot{
		Scenario:     s.scenario.Name,
		Next:         s.next,
		Steps:        len(s.scenario.Steps),
		Clock:        p.clock.Now(),
		Focus:        s.focused(),
		ScrollLocked: p.locks.Locked(),
		Widgets:      make(map[string]WidgetSnapshot, len(p.widgets)),
		Elements:     make(map[string]ElementSnapshot, len(p.nodes)),
	}

	for name, w := range p.widgets {
		ws := WidgetSnapshot{
			Kind:    w.kind,
			Open:    w.ctrl.Open().Get(),
			Visible: w.ctrl.Visible().Get(),
			State:   w.ctrl.State().String(),
			Poppers: w.ctrl.Stats().Live(),
		}
		if trigger := w.ctrl.ActiveTrigger().Get(); !dom.IsNil(trigger) {
			ws.Trigger = p.nameOf(trigger)
		}
		snap.Widgets[name] = ws
	}

	for name, n := range p.nodes {
		es := ElementSnapshot{
			Tag:       n.Tag(),
			Connected: n.IsConnected(),
			Attrs:     make(map[string]string),
		}
		if parent := n.Parent(); parent != nil {
			if parent == p.tree.Body() {
				es.Parent = "body"
			} else {
				es.Parent = p.nameOf(parent)
			}
		}
		for _, attr := range n.AttrNames() {
			if attr == "style" {
				continue
			}
			es.Attrs[attr], _ = n.Attr(attr)
		}
		for _, prop := range []string{"display", "position", "top", "left", "width", "height"} {
			if v := n.Style(prop); v != "" {
				if es.Style == nil {
					es.Style = make(map[string]string)
				}
				es.Style[prop] = v
			}
		}
		snap.Elements[name] = es
	}
	return snap
}
