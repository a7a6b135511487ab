package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripWellFormed(t *testing.T) {
	d := Descriptor{Sections: []Section{
		{Name: SectionContext, Kind: KindText, Text: "Formal languages.\nExam oriented."},
		{Name: SectionModules, Kind: KindList, Entries: []Entry{
			{Name: "automata"},
			{Name: "grammars", Flags: []string{"archived"}},
		}},
		{Name: SectionSaved, Kind: KindList, Entries: []Entry{
			{Name: "Cells", Flags: []string{"explanation"}, Note: "1"},
			{Name: "Cells", Flags: []string{"quiz"}, Note: "2"},
		}},
	}}
	out := Serialize(d)
	back := Parse(out)
	require.Equal(t, d, back)

	// Deterministic: serializing again is byte identical.
	assert.Equal(t, out, Serialize(back))
}

func TestParseMissingSectionsDefaultEmpty(t *testing.T) {
	d := Parse("[context]\nsome text\n")
	assert.Equal(t, "some text", d.TextOf(SectionContext))
	assert.Empty(t, d.EntriesOf(SectionTopics))
	assert.Empty(t, d.TextOf("never-written"))
}

func TestParsePreservesUnrecognizedLines(t *testing.T) {
	raw := "hand written preamble\n[topics]\n- Cells\nstray prose inside a list\n- Mitosis\n"
	d := Parse(raw)
	require.Len(t, d.Sections, 2)
	assert.Equal(t, KindUnparsed, d.Sections[0].Kind)
	assert.Equal(t, []string{"hand written preamble"}, d.Sections[0].Raw)

	// Mixed list and prose degrades to unparsed, verbatim.
	assert.Equal(t, KindUnparsed, d.Sections[1].Kind)
	assert.Equal(t, []string{"- Cells", "stray prose inside a list", "- Mitosis"}, d.Sections[1].Raw)

	// Round-tripping hand-edits does not destroy them.
	again := Parse(Serialize(d))
	assert.Equal(t, d, again)
}

func TestParseEmptyAndGarbage(t *testing.T) {
	assert.Empty(t, Parse("").Sections)
	d := Parse("\x00\x01 not a descriptor at all")
	require.Len(t, d.Sections, 1)
	assert.Equal(t, KindUnparsed, d.Sections[0].Kind)
}

func TestEntryFieldsParse(t *testing.T) {
	d := Parse("[topics]\n- Cells :: explanation,quiz :: saved\n- Mitosis\n- Krebs ::  :: note only\n")
	entries := d.EntriesOf(SectionTopics)
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Name: "Cells", Flags: []string{"explanation", "quiz"}, Note: "saved"}, entries[0])
	assert.Equal(t, Entry{Name: "Mitosis"}, entries[1])
	assert.Equal(t, Entry{Name: "Krebs", Note: "note only"}, entries[2])
}

func TestUpsertEntryReplacesInPlace(t *testing.T) {
	var d Descriptor
	d.UpsertEntry(SectionTopics, Entry{Name: "Cells"})
	d.UpsertEntry(SectionTopics, Entry{Name: "Mitosis"})
	d.UpsertEntry(SectionTopics, Entry{Name: "Cells", Flags: []string{"explanation"}})
	entries := d.EntriesOf(SectionTopics)
	require.Len(t, entries, 2)
	assert.Equal(t, "Cells", entries[0].Name)
	assert.Equal(t, []string{"explanation"}, entries[0].Flags)
	assert.Equal(t, "Mitosis", entries[1].Name)
}

func TestRoundTripEmptyListSections(t *testing.T) {
	// The exact shape a freshly initialized subject descriptor has: empty
	// context text and two list sections with no entries yet.
	var d Descriptor
	d.SetText(SectionContext, "")
	d.SetEntries(SectionModules, nil)
	d.SetEntries(SectionSaved, nil)

	back := Parse(Serialize(d))
	require.Equal(t, d, back)

	mods := back.Find(SectionModules)
	require.NotNil(t, mods)
	assert.Equal(t, KindList, mods.Kind)
	saved := back.Find(SectionSaved)
	require.NotNil(t, saved)
	assert.Equal(t, KindList, saved.Kind)
}

func TestRoundTripTextLookingLikeList(t *testing.T) {
	var d Descriptor
	d.SetText(SectionContext, "- looks like a bullet\n- so does this\n-\n\\already escaped")

	back := Parse(Serialize(d))
	require.Equal(t, d, back)
	sec := back.Find(SectionContext)
	require.NotNil(t, sec)
	assert.Equal(t, KindText, sec.Kind)
	assert.Empty(t, back.EntriesOf(SectionContext))
}

func TestRoundTripEntryNameWithSeparator(t *testing.T) {
	names := []string{
		"Input :: Output Mapping",
		`Paths with \ backslash`,
		`Pre-escaped \:: form`,
	}
	var d Descriptor
	for _, n := range names {
		d.UpsertEntry(SectionTopics, Entry{Name: n, Flags: []string{"explanation"}, Note: "1"})
	}

	back := Parse(Serialize(d))
	require.Equal(t, d, back)
	entries := back.EntriesOf(SectionTopics)
	require.Len(t, entries, len(names))
	for i, n := range names {
		assert.Equal(t, n, entries[i].Name)
		assert.Equal(t, []string{"explanation"}, entries[i].Flags)
	}
}
