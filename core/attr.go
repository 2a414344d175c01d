package core

import "golang.org/x/net/html"

// AttrValue is the value of an attribute as found on a parsed element.
// Well-formed markup yields Single; an element repeating the attribute
// yields Multiple, in document order.
type AttrValue struct {
	values []string
}

// ReadAttr returns every value of key on n. ok is false when the attribute
// is absent.
func ReadAttr(n *html.Node, key string) (v AttrValue, ok bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			v.values = append(v.values, a.Val)
		}
	}
	return v, len(v.values) > 0
}

// IsMultiple reports whether the attribute was repeated.
func (v AttrValue) IsMultiple() bool {
	return len(v.values) > 1
}

// Values returns all values.
func (v AttrValue) Values() []string {
	return v.values
}

// First returns the first value, which is what a coerced Multiple keeps.
func (v AttrValue) First() string {
	if len(v.values) == 0 {
		return ""
	}
	return v.values[0]
}

// SetAttr replaces every occurrence of key on n with a single attribute
// holding val. The first occurrence keeps its position.
func SetAttr(n *html.Node, key, val string) {
	out := n.Attr[:0]
	seen := false
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			if seen {
				continue
			}
			seen = true
			a.Val = val
		}
		out = append(out, a)
	}
	if !seen {
		out = append(out, html.Attribute{Key: key, Val: val})
	}
	n.Attr = out
}
