// Package descriptor models the semi-structured text records that subjects and
// modules persist on disk. A descriptor is an ordered list of named sections;
// each section is free text, a topic list, or an unparsed bucket that keeps
// hand-edited lines the codec could not understand.
package descriptor

// SectionKind tags the union of section payloads.
type SectionKind string

const (
	KindText     SectionKind = "text"
	KindList     SectionKind = "list"
	KindUnparsed SectionKind = "unparsed"
)

// Conventional section names used by the store.
const (
	SectionContext = "context"
	SectionModules = "modules"
	SectionSaved   = "saved"
	SectionTopics  = "topics"
)

// Entry is one row of a list section: a name, optional flags, optional note.
type Entry struct {
	Name  string
	Flags []string
	Note  string
}

// HasFlag reports whether the entry carries the given flag.
func (e Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// WithFlag returns a copy of the entry with flag added once.
func (e Entry) WithFlag(flag string) Entry {
	if e.HasFlag(flag) {
		return e
	}
	out := e
	out.Flags = append(append([]string(nil), e.Flags...), flag)
	return out
}

// Section is one named segment of a descriptor.
type Section struct {
	Name    string
	Kind    SectionKind
	Text    string   // KindText
	Entries []Entry  // KindList
	Raw     []string // KindUnparsed, verbatim lines
}

// Descriptor is an ordered collection of sections.
type Descriptor struct {
	Sections []Section
}

// Find returns the first section with the given name, or nil.
func (d *Descriptor) Find(name string) *Section {
	for i := range d.Sections {
		if d.Sections[i].Name == name {
			return &d.Sections[i]
		}
	}
	return nil
}

// TextOf returns the body of a free-text section; missing sections read as "".
func (d *Descriptor) TextOf(name string) string {
	if s := d.Find(name); s != nil && s.Kind == KindText {
		return s.Text
	}
	return ""
}

// EntriesOf returns the rows of a list section; missing or non-list sections
// read as empty.
func (d *Descriptor) EntriesOf(name string) []Entry {
	if s := d.Find(name); s != nil && s.Kind == KindList {
		return s.Entries
	}
	return nil
}

// SetText replaces (or appends) a free-text section.
func (d *Descriptor) SetText(name, text string) {
	if s := d.Find(name); s != nil {
		*s = Section{Name: name, Kind: KindText, Text: text}
		return
	}
	d.Sections = append(d.Sections, Section{Name: name, Kind: KindText, Text: text})
}

// SetEntries replaces (or appends) a list section.
func (d *Descriptor) SetEntries(name string, entries []Entry) {
	if s := d.Find(name); s != nil {
		*s = Section{Name: name, Kind: KindList, Entries: entries}
		return
	}
	d.Sections = append(d.Sections, Section{Name: name, Kind: KindList, Entries: entries})
}

// UpsertEntry replaces the entry with the same name in place, preserving its
// position, or appends a new one. The section is created when missing.
func (d *Descriptor) UpsertEntry(section string, e Entry) {
	s := d.Find(section)
	if s == nil {
		d.Sections = append(d.Sections, Section{Name: section, Kind: KindList, Entries: []Entry{e}})
		return
	}
	if s.Kind != KindList {
		*s = Section{Name: section, Kind: KindList, Entries: []Entry{e}}
		return
	}
	for i := range s.Entries {
		if s.Entries[i].Name == e.Name {
			s.Entries[i] = e
			return
		}
	}
	s.Entries = append(s.Entries, e)
}

// FindEntry returns the entry with the given name from a list section.
func (d *Descriptor) FindEntry(section, name string) (Entry, bool) {
	for _, e := range d.EntriesOf(section) {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// HasUnparsed reports whether any section holds unparsed lines.
func (d *Descriptor) HasUnparsed() bool {
	for _, s := range d.Sections {
		if s.Kind == KindUnparsed {
			return true
		}
	}
	return false
}
