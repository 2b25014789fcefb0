package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/floatkit/internal/config"
)

// check compares the page against x and returns one message per mismatch.
func (s *Session) check(x *config.Expectation) []string {
	p := s.page
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}

	for _, name := range sortedKeys(x.Open) {
		if got := p.widgets[name].ctrl.Open().Get(); got != x.Open[name] {
			fail("%s: open = %t, want %t", name, got, x.Open[name])
		}
	}
	for _, name := range sortedKeys(x.Visible) {
		if got := p.widgets[name].ctrl.Visible().Get(); got != x.Visible[name] {
			fail("%s: visible = %t, want %t", name, got, x.Visible[name])
		}
	}
	for _, name := range sortedKeys(x.State) {
		got := p.widgets[name].ctrl.State().String()
		if !strings.EqualFold(got, x.State[name]) {
			fail("%s: state = %s, want %s", name, got, x.State[name])
		}
	}
	for _, name := range sortedKeys(x.Poppers) {
		if got := p.widgets[name].ctrl.Stats().Live(); got != x.Poppers[name] {
			fail("%s: live poppers = %d, want %d", name, got, x.Poppers[name])
		}
	}

	if x.Focus != "" {
		got := s.focused()
		if got == "" {
			got = "none"
		}
		if got != x.Focus {
			fail("focus = %s, want %s", got, x.Focus)
		}
	}

	for _, name := range sortedKeys(x.Attrs) {
		node := p.nodes[name]
		want := x.Attrs[name]
		for _, attr := range sortedKeys(want) {
			got, ok := node.Attr(attr)
			switch {
			case !ok:
				fail("%s: attribute %s missing, want %q", name, attr, want[attr])
			case got != want[attr]:
				fail("%s: %s = %q, want %q", name, attr, got, want[attr])
			}
		}
	}
	for _, name := range sortedKeys(x.Absent) {
		node := p.nodes[name]
		for _, attr := range x.Absent[name] {
			if got, ok := node.Attr(attr); ok {
				fail("%s: attribute %s = %q, want absent", name, attr, got)
			}
		}
	}
	for _, name := range sortedKeys(x.Styles) {
		node := p.nodes[name]
		want := x.Styles[name]
		for _, prop := range sortedKeys(want) {
			if got := node.Style(prop); got != want[prop] {
				fail("%s: style %s = %q, want %q", name, prop, got, want[prop])
			}
		}
	}

	if x.ScrollLocked != nil {
		if got := p.locks.Locked(); got != *x.ScrollLocked {
			fail("scroll locked = %t, want %t", got, *x.ScrollLocked)
		}
	}
	return failures
}

func (s *Session) focused() string {
	active := s.page.tree.ActiveElement()
	if active == nil {
		return ""
	}
	return s.page.nameOf(active)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
