// Package store is the authoritative mutator of the knowledge tree. Its four
// operations are atomic with respect to the layout invariants: new scopes are
// staged in a hidden directory and renamed into place, and every file update
// goes through a temp-file-then-rename write.
package store

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"webfolio/internal/descriptor"
	"webfolio/internal/folio"
	"webfolio/internal/layout"
	"webfolio/internal/safeio"
	"webfolio/internal/scan"
	"webfolio/internal/skeleton"
	"webfolio/internal/studygen"
)

// Options configures a Store.
type Options struct {
	// Generator derives topic lists during module initialization. A nil
	// generator (or one without a client) uses the offline syllabus splitter.
	Generator *studygen.Generator
	// DefaultTopicFlags seed every topic entry of a new module.
	DefaultTopicFlags []string
	// Source is recorded as provenance on web-folio records (model id,
	// "manual", ...).
	Source string
}

// Store mutates one base directory. It holds no state beyond the bound
// filesystem; subject and module identity is passed into every call.
type Store struct {
	fs           *safeio.SafeFS
	gen          *studygen.Generator
	defaultFlags []string
	source       string
}

// Open binds a store to a base directory, creating it when missing.
func Open(base string, opts Options) (*Store, error) {
	fs, err := safeio.NewSafeFS(base)
	if err != nil {
		return nil, err
	}
	return &Store{
		fs:           fs,
		gen:          opts.Generator,
		defaultFlags: opts.DefaultTopicFlags,
		source:       opts.Source,
	}, nil
}

// Base returns the absolute base directory.
func (s *Store) Base() string { return s.fs.Root() }

// InitializeSubject creates a subject: directory, empty descriptor, the three
// web-folio document skeletons, and the subject bootstrap file. The existence
// check runs before any write, and all files appear through one directory
// rename, so a failure leaves nothing behind.
func (s *Store) InitializeSubject(name string) error {
	const op = "init-subject"
	subj := layout.Sanitize(name)
	if subj == "" {
		return opErr(op, name, ErrInvalidName, nil)
	}
	if s.fs.Exists(layout.SubjectDir(subj)) {
		return opErr(op, subj, ErrAlreadyExists, nil)
	}

	var d descriptor.Descriptor
	d.SetText(descriptor.SectionContext, "")
	d.SetEntries(descriptor.SectionModules, nil)
	d.SetEntries(descriptor.SectionSaved, nil)

	app, err := skeleton.Render(skeleton.KindSubjectApp, name, "")
	if err != nil {
		return opErr(op, subj, ErrStorage, err)
	}

	stage, err := s.fs.StageDir(layout.SubjectDir(subj))
	if err != nil {
		return opErr(op, subj, ErrStorage, err)
	}
	files := map[string]string{
		layout.SubjectDescriptor: descriptor.Serialize(d),
		layout.DocStructure:      folio.SkeletonStructure(name),
		layout.DocStyle:          folio.SkeletonStyle(name),
		layout.DocBehavior:       folio.SkeletonBehavior(name),
		subj + "_web_dev_app":    app,
	}
	for fname, content := range files {
		if err := os.WriteFile(filepath.Join(stage, fname), []byte(content), 0o644); err != nil {
			s.fs.DiscardDir(stage)
			return opErr(op, subj, ErrStorage, err)
		}
	}
	if err := s.fs.CommitDir(stage, layout.SubjectDir(subj)); err != nil {
		s.fs.DiscardDir(stage)
		return opErr(op, subj, ErrStorage, err)
	}
	return nil
}

// InitializeModule creates a module under an existing subject: descriptor
// with the derived topic list, the raw syllabus, and the module bootstrap
// file. The module directory rename is the commit point; afterwards the
// subject descriptor's module list is refreshed (derived data the scanner
// never depends on).
func (s *Store) InitializeModule(ctx context.Context, subjectName, moduleName, syllabusText string) error {
	const op = "init-module"
	subj := layout.Sanitize(subjectName)
	mod := layout.Sanitize(moduleName)
	if subj == "" || mod == "" {
		return opErr(op, subjectName+"/"+moduleName, ErrInvalidName, nil)
	}
	scope := subj + "/" + mod
	if !s.fs.Exists(layout.SubjectDir(subj)) {
		return opErr(op, subj, ErrSubjectNotFound, nil)
	}
	if s.fs.Exists(layout.ModuleDir(subj, mod)) {
		return opErr(op, scope, ErrAlreadyExists, nil)
	}

	// Topic derivation happens before any write: a failing generative call
	// leaves the store untouched.
	topics, err := s.gen.Topics(ctx, syllabusText)
	if err != nil {
		return opErr(op, scope, ErrStorage, err)
	}

	var d descriptor.Descriptor
	d.SetText(descriptor.SectionContext, "")
	entries := make([]descriptor.Entry, 0, len(topics))
	for _, t := range topics {
		entries = append(entries, descriptor.Entry{
			Name:  t.Name,
			Flags: append([]string(nil), s.defaultFlags...),
			Note:  t.Summary,
		})
	}
	d.SetEntries(descriptor.SectionTopics, entries)

	app, err := skeleton.Render(skeleton.KindModuleApp, subjectName, moduleName)
	if err != nil {
		return opErr(op, scope, ErrStorage, err)
	}

	stage, err := s.fs.StageDir(layout.ModuleDir(subj, mod))
	if err != nil {
		return opErr(op, scope, ErrStorage, err)
	}
	files := map[string]string{
		layout.ModuleDescriptor: descriptor.Serialize(d),
		layout.SyllabusSource:   syllabusText,
		mod + "_app":            app,
	}
	for fname, content := range files {
		if err := os.WriteFile(filepath.Join(stage, fname), []byte(content), 0o644); err != nil {
			s.fs.DiscardDir(stage)
			return opErr(op, scope, ErrStorage, err)
		}
	}
	if err := s.fs.CommitDir(stage, layout.ModuleDir(subj, mod)); err != nil {
		s.fs.DiscardDir(stage)
		return opErr(op, scope, ErrStorage, err)
	}

	// Module list in the subject descriptor; topic data stays untouched.
	sd := s.readDescriptor(layout.SubjectDescriptorPath(subj))
	sd.UpsertEntry(descriptor.SectionModules, descriptor.Entry{Name: mod})
	if err := s.writeDescriptor(layout.SubjectDescriptorPath(subj), sd); err != nil {
		return opErr(op, scope, ErrStorage, err)
	}
	return nil
}

// UpdateWebFolio merges generated content for (topic, kind) into the subject's
// web-folio document set, then records exactly one saved-content log entry for
// the pair. Documents commit before the log so a mid-operation failure leaves
// the log undercounting, which a re-scan can repair without deleting content.
func (s *Store) UpdateWebFolio(subjectName, topicName, content, kind string) error {
	const op = "update-web-folio"
	subj := layout.Sanitize(subjectName)
	if subj == "" || topicName == "" || kind == "" {
		return opErr(op, subjectName+"/"+topicName, ErrInvalidName, nil)
	}
	if !s.fs.Exists(layout.SubjectDir(subj)) {
		return opErr(op, subj, ErrSubjectNotFound, nil)
	}
	mod, ok := s.resolveTopicModule(subj, topicName)
	if !ok {
		return opErr(op, subj+"/"+topicName, ErrModuleNotFound, nil)
	}
	scope := subj + "/" + mod + "/" + topicName

	idx := s.readDocument(subj, layout.DocStructure, folio.SyntaxHTML)
	sty := s.readDocument(subj, layout.DocStyle, folio.SyntaxBlock)
	beh := s.readDocument(subj, layout.DocBehavior, folio.SyntaxBlock)

	comp := folio.SplitComponent(content)
	idx.Upsert(folio.Record{Topic: topicName, Kind: kind, Source: s.source, Body: comp.Structure})
	upsertOrRemove(sty, topicName, kind, s.source, comp.Style)
	upsertOrRemove(beh, topicName, kind, s.source, comp.Behavior)

	for doc, text := range map[string]string{
		layout.DocStructure: idx.Serialize(),
		layout.DocStyle:     sty.Serialize(),
		layout.DocBehavior:  beh.Serialize(),
	} {
		if err := s.fs.WriteFileAtomic(layout.DocumentPath(subj, doc), []byte(text), 0o644); err != nil {
			return opErr(op, scope, ErrStorage, err)
		}
	}

	// Document write succeeded; now exactly one log entry for the pair.
	sd := s.readDescriptor(layout.SubjectDescriptorPath(subj))
	upsertSavedEntry(&sd, topicName, kind)
	if err := s.writeDescriptor(layout.SubjectDescriptorPath(subj), sd); err != nil {
		return opErr(op, scope, ErrStorage, err)
	}

	// Refresh the topic's artifact flags in its module descriptor (derived,
	// repairable data).
	md := s.readDescriptor(layout.ModuleDescriptorPath(subj, mod))
	if entry, found := md.FindEntry(descriptor.SectionTopics, topicName); found {
		md.UpsertEntry(descriptor.SectionTopics, entry.WithFlag(kind).WithFlag("saved"))
		if err := s.writeDescriptor(layout.ModuleDescriptorPath(subj, mod), md); err != nil {
			return opErr(op, scope, ErrStorage, err)
		}
	}
	return nil
}

// LoadSubjectStructure rebuilds the nested subject/module/topic view from
// disk. Read-only; delegated to the scanner.
func (s *Store) LoadSubjectStructure() (*scan.Tree, error) {
	return scan.Load(s.fs.Root())
}

// resolveTopicModule finds the module whose descriptor lists topicName.
// A topic absent from every module is rejected rather than silently adopted:
// the call carries no module name, so the store cannot guess an owner.
func (s *Store) resolveTopicModule(subj, topicName string) (string, bool) {
	entries, err := s.fs.ReadDir(layout.SubjectDir(subj))
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() || !layout.IsStoreEntry(e.Name()) {
			continue
		}
		md := s.readDescriptor(layout.ModuleDescriptorPath(subj, e.Name()))
		if _, found := md.FindEntry(descriptor.SectionTopics, topicName); found {
			return e.Name(), true
		}
	}
	return "", false
}

func (s *Store) readDescriptor(path string) descriptor.Descriptor {
	b, err := s.fs.ReadFile(path)
	if err != nil {
		return descriptor.Descriptor{}
	}
	return descriptor.Parse(string(b))
}

func (s *Store) writeDescriptor(path string, d descriptor.Descriptor) error {
	return s.fs.WriteFileAtomic(path, []byte(descriptor.Serialize(d)), 0o644)
}

// readDocument tolerates a missing or hand-damaged document: parsing never
// fails, and a deleted file is treated as empty.
func (s *Store) readDocument(subj, doc string, syntax folio.Syntax) *folio.Document {
	b, err := s.fs.ReadFile(layout.DocumentPath(subj, doc))
	if err != nil {
		return folio.ParseDocument("", syntax)
	}
	return folio.ParseDocument(string(b), syntax)
}

func upsertOrRemove(d *folio.Document, topic, kind, source, body string) {
	if body == "" {
		d.Remove(topic, kind)
		return
	}
	d.Upsert(folio.Record{Topic: topic, Kind: kind, Source: source, Body: body})
}

// upsertSavedEntry keys the saved-content log by (topic, kind): replacing an
// existing entry keeps its position and ordinal, appending assigns the next
// ordinal.
func upsertSavedEntry(d *descriptor.Descriptor, topic, kind string) {
	sec := d.Find(descriptor.SectionSaved)
	if sec == nil || sec.Kind != descriptor.KindList {
		d.SetEntries(descriptor.SectionSaved, nil)
		sec = d.Find(descriptor.SectionSaved)
	}
	maxOrdinal := 0
	for i := range sec.Entries {
		if n, err := strconv.Atoi(sec.Entries[i].Note); err == nil && n > maxOrdinal {
			maxOrdinal = n
		}
		if sec.Entries[i].Name == topic && sec.Entries[i].HasFlag(kind) {
			return // already logged; content replacement keeps the entry
		}
	}
	sec.Entries = append(sec.Entries, descriptor.Entry{
		Name:  topic,
		Flags: []string{kind},
		Note:  strconv.Itoa(maxOrdinal + 1),
	})
}
