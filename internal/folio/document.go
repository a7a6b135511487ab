// Package folio reads and writes the three browsable documents of a subject
// (structure, style, behavior). Generated content lives in marker-bounded
// record blocks keyed by topic and content kind; everything outside a record
// is preserved verbatim, so hand edits survive every update.
package folio

import (
	"regexp"
	"strconv"
	"strings"
)

// Syntax selects the comment style used for record markers.
type Syntax int

const (
	// SyntaxHTML wraps markers in <!-- --> (the structure document).
	SyntaxHTML Syntax = iota
	// SyntaxBlock wraps markers in /* */ (style and behavior documents).
	SyntaxBlock
)

func (s Syntax) open() string {
	if s == SyntaxHTML {
		return "<!-- "
	}
	return "/* "
}

func (s Syntax) close() string {
	if s == SyntaxHTML {
		return " -->"
	}
	return " */"
}

// anchor is the line after which appended records are inserted.
func (s Syntax) anchor() string {
	return s.open() + "folio:records" + s.close()
}

// Record is one generated block, keyed by topic and content kind. Source
// records where the content came from (model id, "manual", ...).
type Record struct {
	Topic  string
	Kind   string
	Source string
	Body   string
}

// Pair identifies a record independent of which document holds it.
type Pair struct {
	Topic string
	Kind  string
}

type segment struct {
	raw    []string // verbatim lines when record is nil
	record *Record
}

// Document is a parsed web-folio document.
type Document struct {
	syntax   Syntax
	segments []segment
}

var reBegin = regexp.MustCompile(`folio:begin topic=("(?:[^"\\]|\\.)*") kind=("(?:[^"\\]|\\.)*")(?: src=("(?:[^"\\]|\\.)*"))?`)

// ParseDocument decodes a document. It never fails: a begin marker without a
// matching end is demoted to plain text rather than dropped.
func ParseDocument(text string, syntax Syntax) *Document {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	endMarker := syntax.open() + "folio:end" + syntax.close()

	d := &Document{syntax: syntax}
	var raw []string
	flushRaw := func() {
		if len(raw) > 0 {
			d.segments = append(d.segments, segment{raw: raw})
			raw = nil
		}
	}
	for i := 0; i < len(lines); i++ {
		rec, ok := parseBegin(lines[i], syntax)
		if !ok {
			raw = append(raw, lines[i])
			continue
		}
		// Collect the record body up to the end marker.
		var body []string
		closed := false
		j := i + 1
		for ; j < len(lines); j++ {
			if lines[j] == endMarker {
				closed = true
				break
			}
			body = append(body, lines[j])
		}
		if !closed {
			// Damaged block; keep the text, lose the record identity.
			raw = append(raw, lines[i])
			continue
		}
		flushRaw()
		rec.Body = strings.Join(body, "\n")
		d.segments = append(d.segments, segment{record: &rec})
		i = j
	}
	flushRaw()
	return d
}

func parseBegin(line string, syntax Syntax) (Record, bool) {
	if !strings.HasPrefix(line, syntax.open()) || !strings.HasSuffix(line, syntax.close()) {
		return Record{}, false
	}
	m := reBegin.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}
	topic, err1 := strconv.Unquote(m[1])
	kind, err2 := strconv.Unquote(m[2])
	if err1 != nil || err2 != nil {
		return Record{}, false
	}
	rec := Record{Topic: topic, Kind: kind}
	if m[3] != "" {
		if src, err := strconv.Unquote(m[3]); err == nil {
			rec.Source = src
		}
	}
	return rec, true
}

// Serialize encodes the document deterministically.
func (d *Document) Serialize() string {
	var b strings.Builder
	for _, seg := range d.segments {
		if seg.record == nil {
			for _, line := range seg.raw {
				b.WriteString(line + "\n")
			}
			continue
		}
		r := seg.record
		b.WriteString(d.beginLine(*r) + "\n")
		if r.Body != "" {
			b.WriteString(r.Body + "\n")
		}
		b.WriteString(d.syntax.open() + "folio:end" + d.syntax.close() + "\n")
	}
	return b.String()
}

func (d *Document) beginLine(r Record) string {
	s := d.syntax.open() + "folio:begin topic=" + strconv.Quote(r.Topic) + " kind=" + strconv.Quote(r.Kind)
	if r.Source != "" {
		s += " src=" + strconv.Quote(r.Source)
	}
	return s + d.syntax.close()
}

// Records lists the record blocks in document order.
func (d *Document) Records() []Record {
	var out []Record
	for _, seg := range d.segments {
		if seg.record != nil {
			out = append(out, *seg.record)
		}
	}
	return out
}

// Find returns the record for (topic, kind) if present.
func (d *Document) Find(topic, kind string) (Record, bool) {
	for _, seg := range d.segments {
		if seg.record != nil && seg.record.Topic == topic && seg.record.Kind == kind {
			return *seg.record, true
		}
	}
	return Record{}, false
}

// Upsert replaces the (topic, kind) record in place, keeping its position, or
// inserts a new record after the records anchor (at the end when the anchor
// was edited away).
func (d *Document) Upsert(rec Record) {
	for i := range d.segments {
		if r := d.segments[i].record; r != nil && r.Topic == rec.Topic && r.Kind == rec.Kind {
			d.segments[i].record = &rec
			return
		}
	}
	for i := range d.segments {
		seg := d.segments[i]
		if seg.record != nil {
			continue
		}
		for j, line := range seg.raw {
			if line != d.syntax.anchor() {
				continue
			}
			before := append([]string(nil), seg.raw[:j+1]...)
			after := append([]string(nil), seg.raw[j+1:]...)
			rest := append([]segment(nil), d.segments[i+1:]...)
			d.segments = append(d.segments[:i], segment{raw: before}, segment{record: &rec})
			if len(after) > 0 {
				d.segments = append(d.segments, segment{raw: after})
			}
			d.segments = append(d.segments, rest...)
			return
		}
	}
	d.segments = append(d.segments, segment{record: &rec})
}

// Remove deletes the (topic, kind) record. Text outside the record is kept.
func (d *Document) Remove(topic, kind string) {
	for i := range d.segments {
		if r := d.segments[i].record; r != nil && r.Topic == topic && r.Kind == kind {
			d.segments = append(d.segments[:i], d.segments[i+1:]...)
			return
		}
	}
}

// DistinctPairs collects the distinct (topic, kind) pairs across a document
// set, in first-seen order.
func DistinctPairs(docs ...*Document) []Pair {
	seen := map[Pair]bool{}
	var out []Pair
	for _, d := range docs {
		if d == nil {
			continue
		}
		for _, r := range d.Records() {
			p := Pair{Topic: r.Topic, Kind: r.Kind}
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}
