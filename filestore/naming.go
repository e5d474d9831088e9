package filestore

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

//nolint:gochecknoglobals // compiled once, read-only
var (
	extensionRe  = regexp.MustCompile(`\.[^/.]+$`)
	disallowedRe = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)
	underscoreRe = regexp.MustCompile(`_+`)
)

// StripExtension removes a trailing ".ext" from name.
// Only the last path segment is considered: "a/b.c/d" stays unchanged.
func StripExtension(name string) string {
	return extensionRe.ReplaceAllString(name, "")
}

// CleanFilename produces a lower-case, URL safe stem of filename.
// The extension is dropped, characters outside [a-zA-Z0-9.-_] become "_",
// runs of "_" collapse and leading/trailing "_" are trimmed.
//
// Example: "My File!!.png" -> "my_file".
func CleanFilename(filename string) string {
	s := StripExtension(filename)
	s = disallowedRe.ReplaceAllString(s, "_")
	s = underscoreRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	return strings.ToLower(s)
}

// NewObjectID returns a globally unique object identifier that still carries
// the cleaned filename: "<uuid>_<clean name>".
func NewObjectID(filename string) string {
	id := uuid.NewString()
	if cleaned := CleanFilename(filename); cleaned != "" {
		return id + "_" + cleaned
	}
	return id
}

// JoinFolder prefixes key with "<folder>/" when folder is set.
func JoinFolder(folder, key string) string {
	if folder == "" {
		return key
	}
	return folder + "/" + key
}

// TrimFolder removes a leading "<folder>/" from id when folder is set.
func TrimFolder(folder, id string) string {
	if folder == "" {
		return id
	}
	return strings.TrimPrefix(id, folder+"/")
}
