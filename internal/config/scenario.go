package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/floatkit/internal/errors"
	"github.com/vango-dev/floatkit/pkg/popper"
)

// Widget kinds.
const (
	KindPopover = "popover"
	KindTooltip = "tooltip"
)

// Element parts.
const (
	PartTrigger = "trigger"
	PartContent = "content"
	PartArrow   = "arrow"
	PartClose   = "close"
)

// Pos is the position of a node in the scenario file.
type Pos struct {
	Line   int
	Column int
}

// Scenario is a parsed scenario file.
type Scenario struct {
	Name     string    `yaml:"name"`
	Viewport *Rect     `yaml:"viewport,omitempty"`
	Widgets  []Widget  `yaml:"widgets"`
	Elements []Element `yaml:"elements"`
	Steps    []Step    `yaml:"steps"`

	path string
}

// Rect is an element box.
type Rect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Widget declares one builder instance. Unset options keep the builder
// defaults.
type Widget struct {
	Name                string                 `yaml:"name"`
	Kind                string                 `yaml:"kind"`
	Positioning         *popper.FloatingConfig `yaml:"positioning,omitempty"`
	ArrowSize           *int                   `yaml:"arrowSize,omitempty"`
	DefaultOpen         bool                   `yaml:"defaultOpen,omitempty"`
	DisableFocusTrap    *bool                  `yaml:"disableFocusTrap,omitempty"`
	CloseOnEscape       *bool                  `yaml:"closeOnEscape,omitempty"`
	CloseOnOutsideClick *bool                  `yaml:"closeOnOutsideClick,omitempty"`
	PreventScroll       *bool                  `yaml:"preventScroll,omitempty"`
	Portal              string                 `yaml:"portal,omitempty"`
	ForceVisible        bool                   `yaml:"forceVisible,omitempty"`

	// Tooltip only.
	OpenDelay          *time.Duration `yaml:"openDelay,omitempty"`
	CloseDelay         *time.Duration `yaml:"closeDelay,omitempty"`
	CloseOnPointerDown *bool          `yaml:"closeOnPointerDown,omitempty"`

	Pos Pos `yaml:"-"`
}

// UnmarshalYAML records the widget's position.
func (w *Widget) UnmarshalYAML(value *yaml.Node) error {
	type plain Widget
	if err := value.Decode((*plain)(w)); err != nil {
		return err
	}
	w.Pos = Pos{Line: value.Line, Column: value.Column}
	return nil
}

// Element declares a node of the scenario page.
type Element struct {
	Name   string `yaml:"name"`
	Tag    string `yaml:"tag,omitempty"`
	Parent string `yaml:"parent,omitempty"`
	Widget string `yaml:"widget,omitempty"`
	Part   string `yaml:"part,omitempty"`
	Rect   *Rect  `yaml:"rect,omitempty"`

	// Attrs are extra attributes, e.g. tabindex or data-portal.
	Attrs map[string]string `yaml:"attrs,omitempty"`

	Pos Pos `yaml:"-"`
}

// UnmarshalYAML records the element's position.
func (e *Element) UnmarshalYAML(value *yaml.Node) error {
	type plain Element
	if err := value.Decode((*plain)(e)); err != nil {
		return err
	}
	e.Pos = Pos{Line: value.Line, Column: value.Column}
	return nil
}

// TagOrDefault returns the element tag. Triggers and close parts default to
// button, everything else to div.
func (e Element) TagOrDefault() string {
	if e.Tag != "" {
		return e.Tag
	}
	switch e.Part {
	case PartTrigger, PartClose:
		return "button"
	}
	return "div"
}

// Step is one scenario action. Exactly one action field is set.
type Step struct {
	Click   string         `yaml:"click,omitempty"`
	Key     string         `yaml:"key,omitempty"`
	On      string         `yaml:"on,omitempty"`
	Shift   bool           `yaml:"shift,omitempty"`
	Enter   string         `yaml:"enter,omitempty"`
	Leave   string         `yaml:"leave,omitempty"`
	Focus   string         `yaml:"focus,omitempty"`
	Flush   bool           `yaml:"flush,omitempty"`
	Advance time.Duration  `yaml:"advance,omitempty"`
	Open    string         `yaml:"open,omitempty"`
	Close   string         `yaml:"close,omitempty"`
	Remove  string         `yaml:"remove,omitempty"`
	Set     *SetOption     `yaml:"set,omitempty"`
	Expect  *Expectation   `yaml:"expect,omitempty"`
	Note    string         `yaml:"note,omitempty"`
	Extra   map[string]any `yaml:",inline"`

	Pos Pos `yaml:"-"`
}

// UnmarshalYAML records the step's position.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	type plain Step
	if err := value.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Pos = Pos{Line: value.Line, Column: value.Column}
	return nil
}

// Action returns the name of the step's action, or "" if none or several
// are set.
func (s Step) Action() string {
	var actions []string
	add := func(set bool, name string) {
		if set {
			actions = append(actions, name)
		}
	}
	add(s.Click != "", "click")
	add(s.Key != "", "key")
	add(s.Enter != "", "enter")
	add(s.Leave != "", "leave")
	add(s.Focus != "", "focus")
	add(s.Flush, "flush")
	add(s.Advance != 0, "advance")
	add(s.Open != "", "open")
	add(s.Close != "", "close")
	add(s.Remove != "", "remove")
	add(s.Set != nil, "set")
	add(s.Expect != nil, "expect")
	if len(actions) != 1 {
		return ""
	}
	return actions[0]
}

// Target returns the element a pointer, focus, key or remove step acts on.
// Key steps without "on" target the focused element.
func (s Step) Target() string {
	switch {
	case s.Click != "":
		return s.Click
	case s.Enter != "":
		return s.Enter
	case s.Leave != "":
		return s.Leave
	case s.Focus != "":
		return s.Focus
	case s.Remove != "":
		return s.Remove
	}
	return s.On
}

// SetOption changes a runtime option of a widget.
type SetOption struct {
	Widget string    `yaml:"widget"`
	Option string    `yaml:"option"`
	Value  yaml.Node `yaml:"value"`
}

// Expectation is checked against the page after the previous steps.
type Expectation struct {
	Open         map[string]bool              `yaml:"open,omitempty"`
	Visible      map[string]bool              `yaml:"visible,omitempty"`
	State        map[string]string            `yaml:"state,omitempty"`
	Focus        string                       `yaml:"focus,omitempty"`
	Attrs        map[string]map[string]string `yaml:"attrs,omitempty"`
	Absent       map[string][]string          `yaml:"absent,omitempty"`
	Styles       map[string]map[string]string `yaml:"styles,omitempty"`
	ScrollLocked *bool                        `yaml:"scrollLocked,omitempty"`
	Poppers      map[string]int               `yaml:"poppers,omitempty"`
}

// Path returns the file the scenario was loaded from.
func (s *Scenario) Path() string { return s.path }

// Widget returns the widget declaration by name.
func (s *Scenario) Widget(name string) (Widget, bool) {
	for _, w := range s.Widgets {
		if w.Name == name {
			return w, true
		}
	}
	return Widget{}, false
}

// Element returns the element declaration by name.
func (s *Scenario) Element(name string) (Element, bool) {
	for _, e := range s.Elements {
		if e.Name == name {
			return e, true
		}
	}
	return Element{}, false
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("F101").WithDetail("Scenario file " + path + " does not exist")
		}
		return nil, errors.New("F101").Wrap(err)
	}
	return ParseScenario(data, path)
}

// ParseScenario decodes and validates scenario YAML. path is used for
// error locations only.
func ParseScenario(data []byte, path string) (*Scenario, error) {
	sc := &Scenario{path: path}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(sc); err != nil {
		return nil, yamlError(path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks names, references and option ranges.
func (s *Scenario) Validate() error {
	if len(s.Widgets) == 0 || len(s.Steps) == 0 {
		return errors.New("F204").WithDetailf("Scenario %q has %d widgets and %d steps", s.Name, len(s.Widgets), len(s.Steps))
	}

	widgets := make(map[string]string, len(s.Widgets))
	for _, w := range s.Widgets {
		if err := s.validateWidget(w, widgets); err != nil {
			return err
		}
		widgets[w.Name] = w.Kind
	}

	elements := make(map[string]bool, len(s.Elements))
	for _, e := range s.Elements {
		if err := s.validateElement(e, widgets, elements); err != nil {
			return err
		}
		elements[e.Name] = true
	}

	for i, st := range s.Steps {
		if err := s.validateStep(i, st, widgets, elements); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scenario) at(err *errors.Error, pos Pos) *errors.Error {
	if pos.Line > 0 && s.path != "" {
		err.WithLocation(s.path, pos.Line, pos.Column)
	}
	return err
}

func (s *Scenario) validateWidget(w Widget, seen map[string]string) error {
	switch {
	case w.Name == "":
		return s.at(errors.New("F107").WithDetail("A widget has no name"), w.Pos)
	case seen[w.Name] != "":
		return s.at(errors.New("F106").WithDetailf("Widget %q is declared twice", w.Name), w.Pos)
	case w.Kind != KindPopover && w.Kind != KindTooltip:
		return s.at(errors.New("F103").
			WithDetailf("Widget %q has kind %q", w.Name, w.Kind).
			WithSuggestion("Use kind: popover or kind: tooltip"), w.Pos)
	}

	if w.Positioning != nil {
		if err := w.Positioning.Validate(); err != nil {
			fe := errors.New("F104").Wrap(err)
			if strings.Contains(err.Error(), "negative") {
				fe = errors.New("F105").Wrap(err)
			}
			return s.at(fe.WithSuggestion("Placements: "+placementList()), w.Pos)
		}
	}
	if w.ArrowSize != nil && *w.ArrowSize < 0 {
		return s.at(errors.New("F105").WithDetailf("Widget %q has arrowSize %d", w.Name, *w.ArrowSize), w.Pos)
	}
	for name, d := range map[string]*time.Duration{"openDelay": w.OpenDelay, "closeDelay": w.CloseDelay} {
		if d != nil && *d < 0 {
			return s.at(errors.New("F105").WithDetailf("Widget %q has %s %s", w.Name, name, *d), w.Pos)
		}
	}
	if _, err := ParsePortal(w.Portal); err != nil {
		return s.at(errors.New("F105").Wrap(err), w.Pos)
	}

	if w.Kind == KindPopover && (w.OpenDelay != nil || w.CloseDelay != nil || w.CloseOnPointerDown != nil) {
		return s.at(errors.New("F108").WithDetailf("Popover %q sets tooltip delays", w.Name), w.Pos)
	}
	if w.Kind == KindTooltip && (w.DisableFocusTrap != nil || w.CloseOnOutsideClick != nil || w.PreventScroll != nil) {
		return s.at(errors.New("F108").
			WithDetailf("Tooltip %q sets a popover option", w.Name).
			WithSuggestion("Tooltips never trap focus, close on outside clicks or lock scrolling"), w.Pos)
	}
	return nil
}

func (s *Scenario) validateElement(e Element, widgets map[string]string, seen map[string]bool) error {
	switch {
	case e.Name == "":
		return s.at(errors.New("F107").WithDetail("An element has no name"), e.Pos)
	case seen[e.Name]:
		return s.at(errors.New("F106").WithDetailf("Element %q is declared twice", e.Name), e.Pos)
	case e.Parent != "" && !seen[e.Parent]:
		return s.at(errors.New("F201").
			WithDetailf("Element %q has parent %q, which is not declared before it", e.Name, e.Parent), e.Pos)
	}

	if e.Widget == "" {
		if e.Part != "" {
			return s.at(errors.New("F206").WithDetailf("Element %q has a part but no widget", e.Name), e.Pos)
		}
		return nil
	}
	kind, ok := widgets[e.Widget]
	if !ok {
		return s.at(errors.New("F201").WithDetailf("Element %q refers to widget %q", e.Name, e.Widget), e.Pos)
	}
	switch e.Part {
	case PartTrigger, PartContent, PartArrow:
	case PartClose:
		if kind == KindTooltip {
			return s.at(errors.New("F206").WithDetailf("Tooltip %q has no close part", e.Widget), e.Pos)
		}
	default:
		return s.at(errors.New("F206").WithDetailf("Element %q has part %q", e.Name, e.Part), e.Pos)
	}
	return nil
}

func (s *Scenario) validateStep(i int, st Step, widgets map[string]string, elements map[string]bool) error {
	if len(st.Extra) > 0 {
		unknown := keys(st.Extra)
		sort.Strings(unknown)
		return s.at(errors.New("F202").WithDetailf("Step %d uses unknown action %q", i+1, unknown[0]), st.Pos)
	}
	action := st.Action()
	if action == "" {
		return s.at(errors.New("F205").WithDetailf("Step %d must have exactly one action", i+1), st.Pos)
	}

	element := func(name string) error {
		if name != "" && !elements[name] {
			return s.at(errors.New("F201").WithDetailf("Step %d refers to element %q", i+1, name), st.Pos)
		}
		return nil
	}
	widget := func(name string) error {
		if _, ok := widgets[name]; !ok {
			return s.at(errors.New("F201").WithDetailf("Step %d refers to widget %q", i+1, name), st.Pos)
		}
		return nil
	}

	switch action {
	case "click", "enter", "leave", "focus", "remove", "key":
		return element(st.Target())
	case "advance":
		if st.Advance < 0 {
			return s.at(errors.New("F205").WithDetailf("Step %d advances by %s", i+1, st.Advance), st.Pos)
		}
	case "open":
		return widget(st.Open)
	case "close":
		return widget(st.Close)
	case "set":
		if err := widget(st.Set.Widget); err != nil {
			return err
		}
		if !SettableOption(st.Set.Option) {
			return s.at(errors.New("F205").WithDetailf("Step %d sets unknown option %q", i+1, st.Set.Option), st.Pos)
		}
	case "expect":
		return s.validateExpectation(i, st, widgets, elements)
	}
	return nil
}

func (s *Scenario) validateExpectation(i int, st Step, widgets map[string]string, elements map[string]bool) error {
	x := st.Expect
	refs := func(names []string, known func(string) bool, what string) error {
		for _, n := range names {
			if !known(n) {
				return s.at(errors.New("F201").WithDetailf("Step %d expects %s %q", i+1, what, n), st.Pos)
			}
		}
		return nil
	}
	isWidget := func(n string) bool { _, ok := widgets[n]; return ok }
	isElement := func(n string) bool { return elements[n] }

	checks := []error{
		refs(keys(x.Open), isWidget, "widget"),
		refs(keys(x.Visible), isWidget, "widget"),
		refs(keys(x.State), isWidget, "widget"),
		refs(keys(x.Poppers), isWidget, "widget"),
		refs(keys(x.Attrs), isElement, "element"),
		refs(keys(x.Absent), isElement, "element"),
		refs(keys(x.Styles), isElement, "element"),
	}
	if x.Focus != "" && x.Focus != "none" {
		checks = append(checks, refs([]string{x.Focus}, isElement, "element"))
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// Settable runtime options.
var settableOptions = []string{
	"positioning", "arrowSize", "disableFocusTrap", "closeOnEscape",
	"closeOnOutsideClick", "preventScroll", "portal", "forceVisible",
	"openDelay", "closeDelay", "closeOnPointerDown",
}

// SettableOption reports whether name can be changed by a set step.
func SettableOption(name string) bool {
	for _, o := range settableOptions {
		if o == name {
			return true
		}
	}
	return false
}

// ParsePortal parses the portal option: "" or "auto" relocates to the
// nearest data-portal ancestor or the body, "none" disables relocation and
// "#id" relocates into the element with that id.
func ParsePortal(s string) (popper.Portal, error) {
	switch {
	case s == "" || s == "auto":
		return popper.PortalAuto(), nil
	case s == "none":
		return popper.PortalDisabled(), nil
	case strings.HasPrefix(s, "#") && len(s) > 1:
		return popper.PortalID(s[1:]), nil
	}
	return popper.Portal{}, fmt.Errorf("portal %q must be auto, none or #id", s)
}

func placementList() string {
	names := make([]string, len(popper.Placements))
	for i, p := range popper.Placements {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
