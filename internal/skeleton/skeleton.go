// Package skeleton renders the generated bootstrap files that make one
// subject or module browsable. Rendering is pure text substitution over a
// versioned constant; the files it produces carry no state the store needs to
// read back.
package skeleton

import (
	"fmt"
	"strings"
)

// Kind selects which skeleton to render.
type Kind string

const (
	KindSubjectApp Kind = "subject_app"
	KindModuleApp  Kind = "module_app"
)

// Version is embedded in every rendered file so stale bootstrap files can be
// recognized and regenerated. Regeneration replaces the whole file; the
// renderer never edits inside a file it did not produce.
const Version = "v1"

const versionMarker = "<!-- webfolio-app " + Version + " -->"

const subjectAppSkeleton = versionMarker + `
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{SUBJECT}} — study folio</title>
<link rel="stylesheet" href="style">
</head>
<body>
<header><h1>{{SUBJECT}}</h1></header>
<main>
<p>Open <a href="index">the study folio</a> for {{SUBJECT}}.</p>
</main>
<script src="script"></script>
</body>
</html>
`

const moduleAppSkeleton = versionMarker + `
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{SUBJECT}} / {{MODULE}}</title>
<link rel="stylesheet" href="../style">
</head>
<body>
<header><h1>{{SUBJECT}} — {{MODULE}}</h1></header>
<main>
<p>Module topics are listed in <code>module_descriptor</code>; generated
content lives in the subject folio <a href="../index">index</a>.</p>
</main>
<script src="../script"></script>
</body>
</html>
`

// Render fills the skeleton for the given kind. moduleName is ignored for
// KindSubjectApp. An unknown kind is a programmer error.
func Render(kind Kind, subjectName, moduleName string) (string, error) {
	r := strings.NewReplacer("{{SUBJECT}}", subjectName, "{{MODULE}}", moduleName)
	switch kind {
	case KindSubjectApp:
		return r.Replace(subjectAppSkeleton), nil
	case KindModuleApp:
		return r.Replace(moduleAppSkeleton), nil
	default:
		return "", fmt.Errorf("skeleton: unknown kind %q", kind)
	}
}

// IsCurrent reports whether rendered content carries the current skeleton
// version marker.
func IsCurrent(content string) bool {
	return strings.HasPrefix(content, versionMarker)
}
