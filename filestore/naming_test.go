package filestore_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/fileprovider/filestore"
)

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "spaces and punctuation", input: "My File!!.png", expected: "my_file"},
		{name: "leading and trailing underscores", input: "___lead_trail___.jpg", expected: "lead_trail"},
		{name: "keeps dots dashes underscores", input: "report-v1.2_final.pdf", expected: "report-v1.2_final"},
		{name: "no extension", input: "README", expected: "readme"},
		{name: "only last extension dropped", input: "archive.tar.gz", expected: "archive.tar"},
		{name: "unicode replaced", input: "фото отпуск.jpeg", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, filestore.CleanFilename(tc.input))
		})
	}
}

func TestCleanFilename_Idempotent(t *testing.T) {
	for _, input := range []string{"My File!!.png", "___lead_trail___.jpg", "a  b  c", "x.y.z"} {
		once := filestore.CleanFilename(input)
		// Cleaning again strips one more "extension" only when a dot is left,
		// so compare on dot-free output.
		if strings.Contains(once, ".") {
			continue
		}
		assert.Equal(t, once, filestore.CleanFilename(once), "input %q", input)
	}
}

func TestNewObjectID(t *testing.T) {
	first := filestore.NewObjectID("photo.png")
	second := filestore.NewObjectID("photo.png")

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, "_photo"))

	token, name, found := strings.Cut(first, "_")
	require.True(t, found)
	assert.Equal(t, "photo", name)
	_, err := uuid.Parse(token)
	require.NoError(t, err)
}

func TestNewObjectID_EmptyCleanName(t *testing.T) {
	id := filestore.NewObjectID("!!!.png")

	_, err := uuid.Parse(id)
	require.NoError(t, err)
}

func TestStripExtension(t *testing.T) {
	assert.Equal(t, "abc123_photo", filestore.StripExtension("abc123_photo.png"))
	assert.Equal(t, "abc123_photo", filestore.StripExtension("abc123_photo"))
	assert.Equal(t, "dir.v2/file", filestore.StripExtension("dir.v2/file"))
	assert.Equal(t, "dir/file", filestore.StripExtension("dir/file.txt"))
}

func TestFolderHelpers(t *testing.T) {
	assert.Equal(t, "uploads/abc123_photo", filestore.JoinFolder("uploads", "abc123_photo"))
	assert.Equal(t, "abc123_photo", filestore.JoinFolder("", "abc123_photo"))

	assert.Equal(t, "abc123_photo", filestore.TrimFolder("uploads", "uploads/abc123_photo"))
	assert.Equal(t, "other/abc123_photo", filestore.TrimFolder("uploads", "other/abc123_photo"))
	assert.Equal(t, "uploads/abc123_photo", filestore.TrimFolder("", "uploads/abc123_photo"))
}
