// Package scan rebuilds the nested subject/module/topic view from disk alone.
// It is a derived, read-only view: every call re-reads the tree, so the result
// always reflects the latest store writes and any hand edits. Partial or
// corrupt state degrades individual entries instead of failing the scan.
package scan

import (
	"os"
	"path/filepath"
	"sort"

	"webfolio/internal/descriptor"
	"webfolio/internal/folio"
	"webfolio/internal/layout"
)

// Topic is one learning unit with the artifact kinds actually present in the
// subject's web-folio documents.
type Topic struct {
	Name    string
	Summary string
	Flags   []string
	Kinds   []string // derived from document records, not from the descriptor
	Saved   bool
}

// Module is a syllabus-scoped unit. Unreadable marks a descriptor that exists
// but yields no usable topic list.
type Module struct {
	Name       string
	Unreadable bool
	Context    string
	Topics     []Topic
}

// Subject is one top-level knowledge domain.
type Subject struct {
	Name       string
	Unreadable bool // descriptor missing or unreadable
	Context    string
	Modules    []Module
	// Saved is the saved-content log as recorded in the descriptor.
	Saved []descriptor.Entry
	// Pairs is the distinct (topic, kind) set actually present in the
	// web-folio documents; comparing it against Saved detects drift.
	Pairs []folio.Pair
}

// Tree is the scanner's output, sorted lexicographically by sanitized name so
// repeated scans of unchanged state are identical.
type Tree struct {
	Subjects []Subject
}

// Subject returns the named subject view, if present.
func (t *Tree) Subject(name string) (Subject, bool) {
	san := layout.Sanitize(name)
	for _, s := range t.Subjects {
		if s.Name == san {
			return s, true
		}
	}
	return Subject{}, false
}

// Load scans the store under base. A missing subjects directory is an empty
// tree, not an error; errors are reserved for an unreadable base itself.
func Load(base string) (*Tree, error) {
	root := filepath.Join(base, layout.SubjectsRoot)
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return &Tree{}, nil
		}
		return nil, err
	}

	tree := &Tree{}
	for _, e := range entries {
		if !e.IsDir() || !layout.IsStoreEntry(e.Name()) {
			continue
		}
		tree.Subjects = append(tree.Subjects, loadSubject(base, e.Name()))
	}
	sort.Slice(tree.Subjects, func(i, j int) bool {
		return tree.Subjects[i].Name < tree.Subjects[j].Name
	})
	return tree, nil
}

func loadSubject(base, name string) Subject {
	s := Subject{Name: name}

	d, readable := readDescriptor(filepath.Join(base, layout.SubjectDescriptorPath(name)))
	if !readable {
		s.Unreadable = true
	} else {
		s.Context = d.TextOf(descriptor.SectionContext)
		s.Saved = d.EntriesOf(descriptor.SectionSaved)
	}

	kindsByTopic, pairs := loadDocuments(base, name)
	s.Pairs = pairs

	dir, err := os.ReadDir(filepath.Join(base, layout.SubjectDir(name)))
	if err != nil {
		return s
	}
	for _, e := range dir {
		if !e.IsDir() || !layout.IsStoreEntry(e.Name()) {
			continue
		}
		// A directory without a module descriptor is not a module; reporting
		// it would break the descriptor-iff-module invariant.
		if _, err := os.Stat(filepath.Join(base, layout.ModuleDescriptorPath(name, e.Name()))); err != nil {
			continue
		}
		s.Modules = append(s.Modules, loadModule(base, name, e.Name(), kindsByTopic))
	}
	sort.Slice(s.Modules, func(i, j int) bool {
		return s.Modules[i].Name < s.Modules[j].Name
	})
	return s
}

func loadModule(base, subject, name string, kindsByTopic map[string][]string) Module {
	m := Module{Name: name}
	d, readable := readDescriptor(filepath.Join(base, layout.ModuleDescriptorPath(subject, name)))
	if !readable {
		m.Unreadable = true
		return m
	}
	m.Context = d.TextOf(descriptor.SectionContext)
	sec := d.Find(descriptor.SectionTopics)
	if sec == nil || sec.Kind == descriptor.KindUnparsed ||
		(sec.Kind == descriptor.KindText && sec.Text != "") {
		// Descriptor exists but carries no recoverable topic list (truncated
		// or hand-damaged): report the module, flag the damage.
		m.Unreadable = true
		return m
	}
	for _, e := range sec.Entries {
		kinds := kindsByTopic[e.Name]
		m.Topics = append(m.Topics, Topic{
			Name:    e.Name,
			Summary: e.Note,
			Flags:   e.Flags,
			Kinds:   kinds,
			Saved:   len(kinds) > 0,
		})
	}
	return m
}

// readDescriptor reports ok=false only when the file cannot be read; parsing
// itself never fails.
func readDescriptor(path string) (descriptor.Descriptor, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return descriptor.Descriptor{}, false
	}
	return descriptor.Parse(string(b)), true
}

func loadDocuments(base, subject string) (map[string][]string, []folio.Pair) {
	read := func(doc string, syntax folio.Syntax) *folio.Document {
		b, err := os.ReadFile(filepath.Join(base, layout.DocumentPath(subject, doc)))
		if err != nil {
			return nil
		}
		return folio.ParseDocument(string(b), syntax)
	}
	idx := read(layout.DocStructure, folio.SyntaxHTML)
	sty := read(layout.DocStyle, folio.SyntaxBlock)
	beh := read(layout.DocBehavior, folio.SyntaxBlock)

	pairs := folio.DistinctPairs(idx, sty, beh)
	kindsByTopic := map[string][]string{}
	for _, p := range pairs {
		kindsByTopic[p.Topic] = append(kindsByTopic[p.Topic], p.Kind)
	}
	for _, kinds := range kindsByTopic {
		sort.Strings(kinds)
	}
	return kindsByTopic, pairs
}
