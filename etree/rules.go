// Package etree implements XML documents, extraction rules and XML
// configuration using github.com/beevik/etree.
package etree

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/xmlidx"
)

// Rules is a compiled pair of extraction rules. The value rule selects
// record elements in a document; the key rule is evaluated relative to each
// record element and yields its lookup key.
//
// Value rules use the etree path syntax (a subset of XPath selecting
// elements). Key rules additionally allow a trailing attribute step
// ("@id", "info/@name"), a trailing text() step, and a string() or
// normalize-space() wrapper.
type Rules struct {
	KeyXPath   string
	ValueXPath string

	value etree.Path
	key   keyExpr
}

type keyExpr struct {
	path      *etree.Path
	attr      string
	text      bool
	normalize bool
}

// CompileRules compiles a key rule and a value rule.
// Returns EINVALID if either rule cannot be compiled.
func CompileRules(keyXPath, valueXPath string) (*Rules, error) {
	if strings.TrimSpace(valueXPath) == "" {
		return nil, xmlidx.Errorf(xmlidx.EINVALID, "value rule required")
	}
	value, err := etree.CompilePath(strings.TrimSpace(valueXPath))
	if err != nil {
		return nil, xmlidx.Errorf(xmlidx.EINVALID, "invalid value rule %q: %s", valueXPath, err)
	}
	key, err := compileKey(keyXPath)
	if err != nil {
		return nil, err
	}
	return &Rules{
		KeyXPath:   keyXPath,
		ValueXPath: valueXPath,
		value:      value,
		key:        key,
	}, nil
}

func compileKey(s string) (keyExpr, error) {
	var k keyExpr
	src := s
	s = strings.TrimSpace(s)
	if s == "" {
		return k, xmlidx.Errorf(xmlidx.EINVALID, "key rule required")
	}

	for _, fn := range []string{"string(", "normalize-space("} {
		if strings.HasPrefix(s, fn) {
			if !strings.HasSuffix(s, ")") {
				return k, xmlidx.Errorf(xmlidx.EINVALID, "invalid key rule %q: unbalanced parenthesis", src)
			}
			k.normalize = fn == "normalize-space("
			s = strings.TrimSpace(s[len(fn) : len(s)-1])
			break
		}
	}

	prefix := s
	i := strings.LastIndex(s, "/")
	last := s[i+1:]
	if strings.HasPrefix(last, "@") || last == "text()" {
		prefix = s[:i+1]
		if last == "text()" {
			k.text = true
		} else if k.attr = last[1:]; k.attr == "" {
			return k, xmlidx.Errorf(xmlidx.EINVALID, "invalid key rule %q: empty attribute name", src)
		}
	}

	// "a//@x" means any descendant of a carrying x, so the attribute
	// predicate needs an element step to attach to.
	if k.attr != "" && (strings.HasSuffix(prefix, "//") || prefix == "/") {
		prefix += "*"
	}
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "/")

	if prefix == "" || prefix == "." {
		return k, nil
	}
	if k.attr != "" {
		prefix += "[@" + k.attr + "]"
	}
	p, err := etree.CompilePath(prefix)
	if err != nil {
		return k, xmlidx.Errorf(xmlidx.EINVALID, "invalid key rule %q: %s", src, err)
	}
	k.path = &p
	return k, nil
}

// Key evaluates the key rule against a record element.
// The second result is false when the rule selects nothing.
func (r *Rules) Key(el *etree.Element) (string, bool) {
	ctx := el
	if r.key.path != nil {
		ctx = el.FindElementPath(*r.key.path)
		if ctx == nil {
			return "", false
		}
	}

	var v string
	switch {
	case r.key.attr != "":
		a := ctx.SelectAttr(r.key.attr)
		if a == nil {
			return "", false
		}
		v = a.Value
	case r.key.text:
		v = ctx.Text()
	default:
		v = stringValue(ctx)
	}

	if r.key.normalize {
		v = strings.Join(strings.Fields(v), " ")
	}
	return v, true
}

// Select returns the record elements of doc in document order.
func (r *Rules) Select(doc *etree.Document) []*etree.Element {
	return doc.FindElementsPath(r.value)
}

// stringValue returns the XPath string value of an element: the
// concatenation of all descendant character data.
func stringValue(el *etree.Element) string {
	var b strings.Builder
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return b.String()
}
