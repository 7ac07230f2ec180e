package xmlidx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Fragment is a read-only, navigable snapshot of one XML subtree.
// Every Fragment owns its tree, so no two lookups ever share position
// or mutation state.
type Fragment struct {
	root *etree.Element
}

// NewFragment returns a Fragment holding a deep copy of el.
func NewFragment(el *etree.Element) *Fragment {
	return &Fragment{root: el.Copy()}
}

// ParseFragment parses serialized XML into a standalone Fragment.
func ParseFragment(s string) (*Fragment, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, Errorf(EINVALID, "fragment has no root element")
	}
	return &Fragment{root: root}, nil
}

// Clone returns an independent copy of the fragment.
func (f *Fragment) Clone() *Fragment {
	return &Fragment{root: f.root.Copy()}
}

// Element returns a deep copy of the fragment's root element.
func (f *Fragment) Element() *etree.Element {
	return f.root.Copy()
}

// Tag returns the qualified tag of the root element.
func (f *Fragment) Tag() string {
	return f.root.FullTag()
}

// Attr returns the value of the named attribute of the root element,
// or the empty string if it is not present.
func (f *Fragment) Attr(name string) string {
	return f.root.SelectAttrValue(name, "")
}

// Text returns the concatenated character data of the fragment.
func (f *Fragment) Text() string {
	var b strings.Builder
	writeText(&b, f.root)
	return b.String()
}

// String returns the fragment serialized as XML.
func (f *Fragment) String() string {
	doc := etree.NewDocument()
	doc.SetRoot(f.root.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

func writeText(b *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			writeText(b, t)
		}
	}
}
