// Package recordbuf implements the grow-on-demand parse-result buffer from
// spec.md §4.3: a sequence of Records owned by the driver and reused across
// files within one indexer run (capacity retained, count reset).
package recordbuf

import "strings"

// ExtCols holds the extensible (schema-registry-declared) column values for
// one record. Zero value means "column not set" for that record.
type ExtCols struct {
	ParentSymbol string
	Scope        string
	Namespace    string
	Modifier     string
	Type         string
	Clue         string
	IsDefinition bool
}

// Record is one extracted occurrence, mirroring the IndexRecord data model
// in spec.md §3.
type Record struct {
	Symbol         string
	FullSymbol     string
	Directory      string
	Filename       string
	Line           int
	Context        string
	SourceLocation string // "row:col - row:col", empty if not applicable
	Ext            ExtCols
}

// sigilContexts lists the context tags for which a leading sigil
// (e.g. "$x") is stripped from Symbol while FullSymbol retains it, per
// spec.md §3 and the Open Question in §9: "Sigil stripping is applied only
// for contexts variable and property ... mirror the source behavior as
// observed, not infer intent."
var sigilContexts = map[string]bool{
	"variable": true,
	"property": true,
}

// normalize lowercases a raw symbol for the Symbol field, stripping a
// leading sigil when ctx is one of the sigil contexts, and stripping
// trailing punctuation when ctx is "comment" or "string" (spec.md §3,§4.3).
func normalize(raw, ctx string) (symbol, full string) {
	full = raw
	s := raw
	if sigilContexts[ctx] && len(s) > 0 && isSigil(s[0]) {
		s = s[1:]
	}
	if ctx == "comment" || ctx == "string" {
		s = strings.TrimRight(s, ".,;:!?)]}\"'")
	}
	return strings.ToLower(s), full
}

func isSigil(b byte) bool {
	return b == '$' || b == '@' || b == '%' || b == '&'
}

// Buffer is the grow-on-demand record sequence described in spec.md §4.3.
// Its zero value is ready to use; Init/Free exist to mirror the spec's
// explicit lifecycle hooks and to make capacity retention visible at call
// sites that reuse a Buffer across files.
type Buffer struct {
	records []Record
}

const initialCapacity = 64

// Init allocates the buffer's backing array with the spec's small initial
// capacity. Calling Init on an already-initialized Buffer is a no-op.
func (b *Buffer) Init() {
	if b.records == nil {
		b.records = make([]Record, 0, initialCapacity)
	}
}

// Free releases the backing array. After Free, the Buffer must be
// re-initialized with Init before reuse.
func (b *Buffer) Free() {
	b.records = nil
}

// Reset truncates the buffer to zero length while retaining capacity, so a
// single allocation serves every file in one indexer run (spec.md §3
// Lifecycle, §4.3).
func (b *Buffer) Reset() {
	b.records = b.records[:0]
}

// Len returns the number of records currently buffered.
func (b *Buffer) Len() int {
	return len(b.records)
}

// Records returns the buffered records. The slice is only valid until the
// next AddEntry or Reset call.
func (b *Buffer) Records() []Record {
	return b.records
}

// AddEntry normalizes and appends one record, performing the lowercasing
// and sigil/punctuation stripping spec.md §4.3 requires before the entry
// is appended. symbol/context/full are the raw (un-normalized) inputs.
func (b *Buffer) AddEntry(rawSymbol string, line int, context, directory, filename, sourceLocation string, ext ExtCols) {
	if b.records == nil {
		b.Init()
	}
	symbol, full := normalize(rawSymbol, context)
	b.records = append(b.records, Record{
		Symbol:         symbol,
		FullSymbol:     full,
		Directory:      directory,
		Filename:       filename,
		Line:           line,
		Context:        context,
		SourceLocation: sourceLocation,
		Ext:            ext,
	})
}
