package folio

import "strings"

// Document skeletons written at subject initialization. Each contains the
// records anchor so later upserts insert generated blocks in a predictable
// place inside a file that stays valid for the rendering host.

const structureSkeleton = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{SUBJECT}} — web folio</title>
<link rel="stylesheet" href="style">
</head>
<body>
<h1>{{SUBJECT}}</h1>
<!-- folio:records -->
<script src="script"></script>
</body>
</html>
`

const styleSkeleton = `/* {{SUBJECT}} — web folio styles */
/* folio:records */
`

const behaviorSkeleton = `/* {{SUBJECT}} — web folio behavior */
/* folio:records */
`

// SkeletonStructure returns the initial structure document for a subject.
func SkeletonStructure(subject string) string {
	return strings.ReplaceAll(structureSkeleton, "{{SUBJECT}}", subject)
}

// SkeletonStyle returns the initial style document for a subject.
func SkeletonStyle(subject string) string {
	return strings.ReplaceAll(styleSkeleton, "{{SUBJECT}}", subject)
}

// SkeletonBehavior returns the initial behavior document for a subject.
func SkeletonBehavior(subject string) string {
	return strings.ReplaceAll(behaviorSkeleton, "{{SUBJECT}}", subject)
}
