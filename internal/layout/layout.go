// Package layout is the single owner of on-disk path construction and name
// normalization for the knowledge store. The store writes through it and the
// scanner reads through it, so the 1:1 mapping between names and directories
// is enforced in exactly one place.
//
// Layout under the base directory:
//
//	subjects/<subject>/subject_descriptor
//	subjects/<subject>/{index,style,script}
//	subjects/<subject>/<subject>_web_dev_app
//	subjects/<subject>/<module>/module_descriptor
//	subjects/<subject>/<module>/syllabus_source
//	subjects/<subject>/<module>/<module>_app
package layout

import (
	"path"
	"strings"
)

const (
	SubjectsRoot      = "subjects"
	SubjectDescriptor = "subject_descriptor"
	ModuleDescriptor  = "module_descriptor"
	SyllabusSource    = "syllabus_source"
	DocStructure      = "index"
	DocStyle          = "style"
	DocBehavior       = "script"
)

// DocumentNames lists the web-folio document files of a subject.
var DocumentNames = []string{DocStructure, DocStyle, DocBehavior}

// Sanitize maps a display name to its directory-safe form: runes outside
// [A-Za-z0-9._-] become '_', runs collapse, and leading dots are stripped so
// store names can never collide with staging or hidden files. The same
// function is applied on write and on lookup.
func Sanitize(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(name) {
		ok := r == '.' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if ok {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "._")
}

// SubjectDir returns the directory of a (sanitized) subject.
func SubjectDir(subject string) string {
	return path.Join(SubjectsRoot, subject)
}

// SubjectDescriptorPath returns the subject descriptor file.
func SubjectDescriptorPath(subject string) string {
	return path.Join(SubjectsRoot, subject, SubjectDescriptor)
}

// SubjectAppPath returns the subject's generated bootstrap file.
func SubjectAppPath(subject string) string {
	return path.Join(SubjectsRoot, subject, subject+"_web_dev_app")
}

// DocumentPath returns one of the subject's web-folio documents.
func DocumentPath(subject, doc string) string {
	return path.Join(SubjectsRoot, subject, doc)
}

// ModuleDir returns the directory of a (sanitized) module.
func ModuleDir(subject, module string) string {
	return path.Join(SubjectsRoot, subject, module)
}

// ModuleDescriptorPath returns the module descriptor file.
func ModuleDescriptorPath(subject, module string) string {
	return path.Join(SubjectsRoot, subject, module, ModuleDescriptor)
}

// ModuleAppPath returns the module's generated bootstrap file.
func ModuleAppPath(subject, module string) string {
	return path.Join(SubjectsRoot, subject, module, module+"_app")
}

// SyllabusPath returns the module's raw syllabus file.
func SyllabusPath(subject, module string) string {
	return path.Join(SubjectsRoot, subject, module, SyllabusSource)
}

// IsStoreEntry reports whether a directory entry name can belong to the store
// (staging and hidden entries start with a dot and never do).
func IsStoreEntry(name string) bool {
	return name != "" && !strings.HasPrefix(name, ".")
}
