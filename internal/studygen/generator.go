package studygen

import (
	"context"
	"fmt"
	"strings"

	"webfolio/internal/jsonx"
	"webfolio/internal/llm"
)

// Topic is one learning unit extracted from a syllabus.
type Topic struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// Generator produces topics and study content. With a nil client it still
// extracts topics via SplitSyllabus, so module initialization works offline;
// content generation requires a client.
type Generator struct {
	LLM llm.Client
}

const topicsPrompt = `You are an expert instructional designer. Parse the following syllabus and identify the main learning topics.
For each topic provide a clear name and a concise one-sentence summary.

Return STRICT JSON ONLY:
{"topics":[{"name":"string","summary":"string"}]}`

// Topics derives the topic list for a module. When no client is configured it
// falls back to the line splitter; a failing client is surfaced to the caller.
func (g *Generator) Topics(ctx context.Context, syllabus string) ([]Topic, error) {
	syllabus = CleanSyllabus(syllabus)
	if g == nil || g.LLM == nil {
		return SplitSyllabus(syllabus), nil
	}
	ctx = llm.WithKind(ctx, "syllabus_topics")
	raw, err := g.LLM.GenerateJSON(ctx, topicsPrompt, map[string]any{"syllabus": syllabus})
	if err != nil {
		return nil, fmt.Errorf("studygen: topics: %w", err)
	}
	var out struct {
		Topics []Topic `json:"topics"`
	}
	if err := jsonx.Decode(raw, &out); err != nil {
		return nil, fmt.Errorf("studygen: topics: %w", llm.ErrInvalidJSON)
	}
	if len(out.Topics) == 0 {
		return nil, fmt.Errorf("studygen: topics: model returned no topics")
	}
	return out.Topics, nil
}

var contentPrompts = map[ContentKind]string{
	KindExplanation: `Persona: expert instructional designer.
Task: generate a comprehensive, HTML-formatted explanation for the given topic.
Methodology: fragmentation, simplification, concept linking, exam-oriented.
Return STRICT JSON ONLY: {"content":"<self-contained HTML fragment>"}`,

	KindVisualMap: `Persona: expert instructional designer.
Task: generate a concept map for the given topic as nested HTML lists (no images).
Return STRICT JSON ONLY: {"content":"<self-contained HTML fragment>"}`,

	KindQuiz: `Persona: expert frontend developer and instructional designer.
Task: create a multiple-choice quiz with 3-4 questions for the given topic.
The quiz must be a self-contained HTML component with <style> for styling and
simple <script> behavior that shows feedback on selection.
Return STRICT JSON ONLY: {"content":"<self-contained HTML component>"}`,

	KindMnemonics: `Persona: expert instructional designer.
Task: invent memorable mnemonics for the key facts of the given topic, as an HTML fragment.
Return STRICT JSON ONLY: {"content":"<self-contained HTML fragment>"}`,
}

// Content generates one artifact for a topic. Subject and module context
// strings come from the descriptors and scope the generation.
func (g *Generator) Content(ctx context.Context, kind ContentKind, topicName, subjectContext, moduleContext string) (string, error) {
	if g == nil || g.LLM == nil {
		return "", fmt.Errorf("studygen: no generative client configured")
	}
	prompt, ok := contentPrompts[kind]
	if !ok {
		return "", fmt.Errorf("studygen: unknown content kind %q", kind)
	}
	ctx = llm.WithKind(ctx, string(kind))
	raw, err := g.LLM.GenerateJSON(ctx, prompt, map[string]any{
		"topic":           topicName,
		"subject_context": subjectContext,
		"module_context":  moduleContext,
	})
	if err != nil {
		return "", fmt.Errorf("studygen: %s for %q: %w", kind, topicName, err)
	}
	var out struct {
		Content string `json:"content"`
	}
	if err := jsonx.Decode(raw, &out); err != nil {
		return "", fmt.Errorf("studygen: %s for %q: %w", kind, topicName, llm.ErrInvalidJSON)
	}
	if strings.TrimSpace(out.Content) == "" {
		return "", fmt.Errorf("studygen: %s for %q: empty content", kind, topicName)
	}
	return out.Content, nil
}

// SplitSyllabus is the offline topic extractor: one topic per non-empty line,
// with list bullets and numbering stripped. It is the documented fallback when
// no generative client is available and needs no network to test.
func SplitSyllabus(syllabus string) []Topic {
	var topics []Topic
	seen := map[string]bool{}
	for _, line := range strings.Split(syllabus, "\n") {
		name := trimListMarkers(line)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		topics = append(topics, Topic{Name: name})
	}
	return topics
}

func trimListMarkers(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "-*•\t ")
	// Leading "3." / "3)" style numbering.
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
