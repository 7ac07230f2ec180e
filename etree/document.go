package etree

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/fwojciec/xmlidx"
)

// Document is one parsed XML file with its records indexed by key.
// Records are extracted once at construction; the parsed tree is shared by
// all records and never handed out without copying.
type Document struct {
	path    string
	records map[string]*etree.Element
	keys    []string
}

// ReadDocument parses the file at path and extracts its records.
func ReadDocument(path string, rules *Rules) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if doc.Root() == nil {
		return nil, xmlidx.Errorf(xmlidx.EINVALID, "reading %s: no root element", path)
	}
	return NewDocument(path, doc, rules), nil
}

// NewDocument extracts the records of an already parsed document.
// Record elements whose key rule selects nothing are skipped. When a key
// recurs within the document the later record wins.
func NewDocument(path string, doc *etree.Document, rules *Rules) *Document {
	d := &Document{
		path:    path,
		records: make(map[string]*etree.Element),
	}
	for _, el := range rules.Select(doc) {
		key, ok := rules.Key(el)
		if !ok {
			continue
		}
		if _, dup := d.records[key]; !dup {
			d.keys = append(d.keys, key)
		}
		d.records[key] = el
	}
	return d
}

// Path returns the file the document was read from.
func (d *Document) Path() string {
	return d.path
}

// Len returns the number of distinct keys in the document.
func (d *Document) Len() int {
	return len(d.keys)
}

// Keys returns the record keys in document order of first occurrence.
func (d *Document) Keys() []string {
	return append([]string(nil), d.keys...)
}

// GetContent returns a private copy of the record stored under key,
// or nil if the document has no such record.
func (d *Document) GetContent(key string) *xmlidx.Fragment {
	el, ok := d.records[key]
	if !ok {
		return nil
	}
	return xmlidx.NewFragment(el)
}

// Records returns every record serialized as XML, in key order of first
// occurrence.
func (d *Document) Records() []xmlidx.Record {
	recs := make([]xmlidx.Record, 0, len(d.keys))
	for _, key := range d.keys {
		recs = append(recs, xmlidx.Record{
			Key:   key,
			Value: xmlidx.NewFragment(d.records[key]).String(),
		})
	}
	return recs
}
