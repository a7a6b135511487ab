package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webfolio/internal/descriptor"
	"webfolio/internal/layout"
	"webfolio/internal/llm"
	"webfolio/internal/studygen"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), Options{
		Generator:         &studygen.Generator{}, // offline splitter
		DefaultTopicFlags: []string{"enabled"},
		Source:            "test",
	})
	require.NoError(t, err)
	return s
}

func initBioWithCells(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.InitializeSubject("Bio"))
	require.NoError(t, s.InitializeModule(context.Background(), "Bio", "cell-biology", "Cells\nMitosis\n"))
}

func TestInitializeSubjectCreatesLayout(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InitializeSubject("Biology 101"))

	dir := filepath.Join(s.Base(), "subjects", "Biology_101")
	for _, f := range []string{"subject_descriptor", "index", "style", "script", "Biology_101_web_dev_app"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Fatalf("missing %s: %v", f, err)
		}
	}
}

func TestInitializeSubjectRejectsDuplicate(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InitializeSubject("Bio"))
	err := s.InitializeSubject("Bio")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyExists))

	// Sanitization applies on lookup too: a name mapping to the same
	// directory is the same subject.
	err = s.InitializeSubject("Bio ")
	assert.True(t, errors.Is(err, ErrAlreadyExists))

	// Exactly one subject on disk, and no staging leftovers.
	entries, err := os.ReadDir(filepath.Join(s.Base(), "subjects"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Bio", entries[0].Name())
}

func TestInitializeModule(t *testing.T) {
	s := newTestStore(t)
	initBioWithCells(t, s)

	dir := filepath.Join(s.Base(), "subjects", "Bio", "cell-biology")
	for _, f := range []string{"module_descriptor", "syllabus_source", "cell-biology_app"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Fatalf("missing %s: %v", f, err)
		}
	}

	b, err := os.ReadFile(filepath.Join(dir, "module_descriptor"))
	require.NoError(t, err)
	d := descriptor.Parse(string(b))
	topics := d.EntriesOf(descriptor.SectionTopics)
	require.Len(t, topics, 2)
	assert.Equal(t, "Cells", topics[0].Name)
	assert.Equal(t, []string{"enabled"}, topics[0].Flags)

	// Subject descriptor lists the module but gained no topic data.
	sb, err := os.ReadFile(filepath.Join(s.Base(), "subjects", "Bio", "subject_descriptor"))
	require.NoError(t, err)
	sd := descriptor.Parse(string(sb))
	mods := sd.EntriesOf(descriptor.SectionModules)
	require.Len(t, mods, 1)
	assert.Equal(t, "cell-biology", mods[0].Name)
	assert.Empty(t, sd.EntriesOf(descriptor.SectionTopics))
}

func TestInitializeModuleFailures(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.InitializeModule(ctx, "Nope", "m", "x\n")
	assert.True(t, errors.Is(err, ErrSubjectNotFound))

	initBioWithCells(t, s)
	err = s.InitializeModule(ctx, "Bio", "cell-biology", "x\n")
	assert.True(t, errors.Is(err, ErrAlreadyExists))
}

func TestInitializeModuleFailedGenerationLeavesNoTrace(t *testing.T) {
	base := t.TempDir()
	s, err := Open(base, Options{Generator: &studygen.Generator{LLM: failingClient{}}})
	require.NoError(t, err)
	require.NoError(t, s.InitializeSubject("Bio"))

	err = s.InitializeModule(context.Background(), "Bio", "broken", "syllabus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))
	assert.NoDirExists(t, filepath.Join(base, "subjects", "Bio", "broken"))
}

func TestUpdateWebFolioMergeSemantics(t *testing.T) {
	s := newTestStore(t)
	initBioWithCells(t, s)

	require.NoError(t, s.UpdateWebFolio("Bio", "Cells", "<p>v1</p>", "explanation"))
	require.NoError(t, s.UpdateWebFolio("Bio", "Cells", "<p>v2</p>", "explanation"))

	idx, err := os.ReadFile(filepath.Join(s.Base(), "subjects", "Bio", "index"))
	require.NoError(t, err)
	assert.Contains(t, string(idx), "<p>v2</p>")
	assert.NotContains(t, string(idx), "<p>v1</p>")

	tree, err := s.LoadSubjectStructure()
	require.NoError(t, err)
	subj, ok := tree.Subject("Bio")
	require.True(t, ok)
	require.Len(t, subj.Pairs, 1)
	require.Len(t, subj.Saved, 1)
	assert.Equal(t, "Cells", subj.Saved[0].Name)
	assert.Equal(t, []string{"explanation"}, subj.Saved[0].Flags)
}

func TestUpdateWebFolioSplitsComponent(t *testing.T) {
	s := newTestStore(t)
	initBioWithCells(t, s)

	content := "<style>.q{color:red}</style><div class=\"q\">quiz</div><script>go()</script>"
	require.NoError(t, s.UpdateWebFolio("Bio", "Cells", content, "quiz"))

	sty, err := os.ReadFile(filepath.Join(s.Base(), "subjects", "Bio", "style"))
	require.NoError(t, err)
	assert.Contains(t, string(sty), ".q{color:red}")
	beh, err := os.ReadFile(filepath.Join(s.Base(), "subjects", "Bio", "script"))
	require.NoError(t, err)
	assert.Contains(t, string(beh), "go()")

	// Replacement that drops the style/behavior parts removes the stale
	// records so the documents never disagree on which pairs exist.
	require.NoError(t, s.UpdateWebFolio("Bio", "Cells", "<div>plain quiz</div>", "quiz"))
	sty, err = os.ReadFile(filepath.Join(s.Base(), "subjects", "Bio", "style"))
	require.NoError(t, err)
	assert.NotContains(t, string(sty), ".q{color:red}")

	tree, err := s.LoadSubjectStructure()
	require.NoError(t, err)
	subj, _ := tree.Subject("Bio")
	assert.Len(t, subj.Pairs, 1)
	assert.Len(t, subj.Saved, 1)
}

func TestUpdateWebFolioMissingScopes(t *testing.T) {
	s := newTestStore(t)
	initBioWithCells(t, s)

	err := s.UpdateWebFolio("Unknown", "Cells", "<p>x</p>", "explanation")
	assert.True(t, errors.Is(err, ErrSubjectNotFound))
	// Nothing was created for the unknown subject.
	assert.NoDirExists(t, filepath.Join(s.Base(), "subjects", "Unknown"))

	// A topic no module lists is rejected, not silently adopted.
	err = s.UpdateWebFolio("Bio", "Quantum Entanglement", "<p>x</p>", "explanation")
	assert.True(t, errors.Is(err, ErrModuleNotFound))
}

func TestSavedLogMatchesDocuments(t *testing.T) {
	s := newTestStore(t)
	initBioWithCells(t, s)
	require.NoError(t, s.InitializeModule(context.Background(), "Bio", "genetics", "DNA\nRNA\n"))

	ops := []struct{ topic, kind string }{
		{"Cells", "explanation"},
		{"Cells", "quiz"},
		{"Mitosis", "explanation"},
		{"Cells", "explanation"}, // replacement, not a new pair
		{"DNA", "mnemonics"},
	}
	for _, op := range ops {
		require.NoError(t, s.UpdateWebFolio("Bio", op.topic, "<p>"+op.topic+"</p>", op.kind))
	}

	tree, err := s.LoadSubjectStructure()
	require.NoError(t, err)
	subj, _ := tree.Subject("Bio")
	assert.Equal(t, len(subj.Pairs), len(subj.Saved))
	assert.Len(t, subj.Saved, 4)

	// Ordinals are stable: Cells/explanation keeps ordinal 1 after its
	// content was replaced.
	assert.Equal(t, "1", subj.Saved[0].Note)
}

func TestTopicFlagsRefreshedOnSave(t *testing.T) {
	s := newTestStore(t)
	initBioWithCells(t, s)
	require.NoError(t, s.UpdateWebFolio("Bio", "Cells", "<p>x</p>", "explanation"))

	b, err := os.ReadFile(filepath.Join(s.Base(), "subjects", "Bio", "cell-biology", "module_descriptor"))
	require.NoError(t, err)
	d := descriptor.Parse(string(b))
	entry, ok := d.FindEntry(descriptor.SectionTopics, "Cells")
	require.True(t, ok)
	assert.True(t, entry.HasFlag("explanation"))
	assert.True(t, entry.HasFlag("saved"))
}

func TestSanitizeOnLookup(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InitializeSubject("Formal Language & Automata"))
	// Different spelling, same sanitized directory: one subject.
	require.NoError(t, s.InitializeModule(context.Background(), "Formal   Language Automata", "basics", "Finite Automata\n"))
	require.NoError(t, s.UpdateWebFolio("Formal Language & Automata", "Finite Automata", "<p>FA</p>", "explanation"))

	_, err := os.Stat(filepath.Join(s.Base(), "subjects", "Formal_Language_Automata", "basics", "module_descriptor"))
	assert.NoError(t, err)
}

func TestInvalidNames(t *testing.T) {
	s := newTestStore(t)
	err := s.InitializeSubject("   ")
	assert.True(t, errors.Is(err, ErrInvalidName))
	err = s.InitializeSubject("...")
	assert.True(t, errors.Is(err, ErrInvalidName))
}

type failingClient struct{}

func (failingClient) Name() string { return "failing" }
func (failingClient) Close() error { return nil }
func (failingClient) GenerateJSON(context.Context, string, any) (json.RawMessage, error) {
	return nil, errors.New("model unavailable")
}

var _ llm.Client = failingClient{}

func TestDocumentNames(t *testing.T) {
	assert.Equal(t, []string{"index", "style", "script"}, layout.DocumentNames)
}
