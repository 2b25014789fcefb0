package builder

import (
	"strconv"
	"strings"
)

// Attr is one rendered attribute.
type Attr struct {
	Name  string
	Value string
}

// Decl is one inline style declaration.
type Decl struct {
	Prop  string
	Value string
}

// Style is an ordered list of inline style declarations. Declarations with
// an empty value are omitted when rendered.
type Style []Decl

// String renders the declarations as a style attribute value.
func (s Style) String() string {
	var b strings.Builder
	for _, d := range s {
		if d.Value == "" {
			continue
		}
		b.WriteString(d.Prop)
		b.WriteString(": ")
		b.WriteString(d.Value)
		b.WriteString(";")
	}
	return b.String()
}

// Value returns the value of prop, or "" when absent.
func (s Style) Value(prop string) string {
	for _, d := range s {
		if d.Prop == prop {
			return d.Value
		}
	}
	return ""
}

// Set is the rendered form of an attribute record: attributes in order plus
// the inline style, which is applied per property.
type Set struct {
	Attrs []Attr
	Style Style
}

// Add appends an attribute.
func (s *Set) Add(name, value string) *Set {
	s.Attrs = append(s.Attrs, Attr{Name: name, Value: value})
	return s
}

// AddIf appends an attribute only when present is true.
func (s *Set) AddIf(present bool, name, value string) *Set {
	if present {
		s.Add(name, value)
	}
	return s
}

// AddBool appends name with "true" or "false".
func (s *Set) AddBool(name string, value bool) *Set {
	return s.Add(name, strconv.FormatBool(value))
}

// AddInt appends name with a decimal value.
func (s *Set) AddInt(name string, value int) *Set {
	return s.Add(name, strconv.Itoa(value))
}

// Get returns the value of name. The style attribute is rendered from Style.
func (s Set) Get(name string) (string, bool) {
	if name == "style" {
		str := s.Style.String()
		return str, str != ""
	}
	for _, a := range s.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs is implemented by the typed attribute record of each element part.
type Attrs interface {
	Attributes() Set
}

// MarkerAttr returns the data-melt marker attribute name for an element.
func MarkerAttr(name string) string {
	return "data-melt-" + name
}
