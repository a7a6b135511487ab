package descriptor

import "strings"

// On-disk shape:
//
//	[context]
//	free text, verbatim
//
//	[topics]
//	- Cells :: explanation,quiz :: saved
//	- Mitosis
//
// Section headers are exact "[name]" lines. List entries are
// "- name :: flag,flag :: note"; the flag and note fields are optional.
// Parse never fails: lines it cannot place are kept verbatim in unparsed
// sections, so a hand-edited file survives a round trip intact.
//
// Two shapes need disambiguation so Serialize output reparses to the same
// descriptor. A list section with no entries is written with a lone "-"
// marker line (a bare header would read back as empty text), and text lines
// that would be mistaken for entries or markers carry a leading backslash.
// Entry names get the same backslash treatment for the " :: " separator;
// the note field is last and never needs it.

const entryPrefix = "- "
const fieldSep = " :: "
const emptyListMarker = "-"

// Parse decodes descriptor text. Malformed input degrades to unparsed
// sections; it is never an error.
func Parse(text string) Descriptor {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var d Descriptor
	name := ""
	var body []string
	flush := func() {
		if sec, ok := buildSection(name, body); ok {
			d.Sections = append(d.Sections, sec)
		}
		body = nil
	}
	for _, line := range lines {
		if h, ok := headerName(line); ok {
			flush()
			name = h
			continue
		}
		body = append(body, line)
	}
	flush()
	return d
}

// Serialize encodes a descriptor deterministically: same descriptor, byte
// identical output. Sections appear in order, separated by one blank line.
func Serialize(d Descriptor) string {
	var b strings.Builder
	for _, s := range d.Sections {
		if s.Name != "" {
			b.WriteString("[" + s.Name + "]\n")
		}
		switch s.Kind {
		case KindList:
			if len(s.Entries) == 0 {
				b.WriteString(emptyListMarker + "\n")
			}
			for _, e := range s.Entries {
				b.WriteString(formatEntry(e) + "\n")
			}
		case KindUnparsed:
			for _, line := range s.Raw {
				b.WriteString(line + "\n")
			}
		default:
			if s.Text != "" {
				for _, line := range strings.Split(s.Text, "\n") {
					b.WriteString(escapeTextLine(line) + "\n")
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func headerName(line string) (string, bool) {
	if len(line) < 3 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	name := line[1 : len(line)-1]
	if strings.ContainsAny(name, "[]") || strings.TrimSpace(name) != name || name == "" {
		return "", false
	}
	return name, true
}

func buildSection(name string, body []string) (Section, bool) {
	// Trailing blank lines are the section separator, not content.
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	if name == "" {
		// Preamble before the first header: nothing, or hand-written junk.
		if len(body) == 0 {
			return Section{}, false
		}
		return Section{Name: "", Kind: KindUnparsed, Raw: body}, true
	}
	if len(body) == 0 {
		return Section{Name: name, Kind: KindText}, true
	}
	if len(body) == 1 && body[0] == emptyListMarker {
		return Section{Name: name, Kind: KindList}, true
	}

	entryLines := 0
	for _, line := range body {
		if strings.HasPrefix(line, entryPrefix) {
			entryLines++
		}
	}
	switch {
	case entryLines == len(body):
		entries := make([]Entry, 0, len(body))
		for _, line := range body {
			entries = append(entries, parseEntry(line))
		}
		return Section{Name: name, Kind: KindList, Entries: entries}, true
	case entryLines == 0:
		for i, line := range body {
			body[i] = unescapeTextLine(line)
		}
		return Section{Name: name, Kind: KindText, Text: strings.Join(body, "\n")}, true
	default:
		// Mixed list and prose: keep every line exactly as found.
		return Section{Name: name, Kind: KindUnparsed, Raw: body}, true
	}
}

// escapeTextLine shields text lines that would otherwise reparse as list
// entries or the empty-list marker.
func escapeTextLine(line string) string {
	if line == emptyListMarker || strings.HasPrefix(line, entryPrefix) || strings.HasPrefix(line, `\`) {
		return `\` + line
	}
	return line
}

func unescapeTextLine(line string) string {
	if strings.HasPrefix(line, `\`) {
		return line[1:]
	}
	return line
}

func parseEntry(line string) Entry {
	rest := strings.TrimPrefix(line, entryPrefix)
	parts := strings.SplitN(rest, fieldSep, 3)
	e := Entry{Name: unescapeName(parts[0])}
	if len(parts) > 1 {
		for _, f := range strings.Split(parts[1], ",") {
			if f = strings.TrimSpace(f); f != "" {
				e.Flags = append(e.Flags, f)
			}
		}
	}
	if len(parts) > 2 {
		e.Note = parts[2]
	}
	return e
}

func formatEntry(e Entry) string {
	s := entryPrefix + escapeName(e.Name)
	if len(e.Flags) > 0 || e.Note != "" {
		s += fieldSep + strings.Join(e.Flags, ",")
	}
	if e.Note != "" {
		s += fieldSep + e.Note
	}
	return s
}

// Topic names come verbatim from syllabi and model output, so an entry name
// may itself contain the field separator. It is stored with the separator's
// backslash-escaped spelling and restored on parse.
func escapeName(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, fieldSep, ` \:: `)
}

func unescapeName(s string) string {
	s = strings.ReplaceAll(s, ` \:: `, fieldSep)
	return strings.ReplaceAll(s, `\\`, `\`)
}
