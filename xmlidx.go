// Package xmlidx provides an indexed store of XML content fragments.
// It builds key→fragment indices from raw XML files using configurable
// extraction rules, serves repeated point lookups during a multi-pass
// documentation build, and combines a bounded in-memory index with an
// optional durable index built in prior runs.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., etree/, sqlite/, pebble/).
package xmlidx
