// Package studygen turns topic names and syllabus text into study content
// through the generative boundary, with an explicit offline fallback for
// topic extraction.
package studygen

import "fmt"

// ContentKind names one generated-artifact kind.
type ContentKind string

const (
	KindExplanation ContentKind = "explanation"
	KindVisualMap   ContentKind = "visual_map"
	KindQuiz        ContentKind = "quiz"
	KindMnemonics   ContentKind = "mnemonics"
)

// AllKinds lists the artifact kinds in their canonical order.
var AllKinds = []ContentKind{KindExplanation, KindVisualMap, KindQuiz, KindMnemonics}

// ParseKind validates a user-supplied kind string.
func ParseKind(s string) (ContentKind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("studygen: unknown content kind %q", s)
}
