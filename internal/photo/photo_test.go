package photo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, "/uploads/")
	require.NoError(t, err)

	url, err := s.Save("fridge-label.jpg", strings.NewReader("not really a jpeg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	// The generated name must not leak the original one.
	assert.NotContains(t, url, "fridge-label")

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "not really a jpeg", string(data))
}

func TestSaveRejectsUnknownTypes(t *testing.T) {
	s, err := NewStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = s.Save("report.pdf", strings.NewReader("x"))
	assert.Error(t, err)
}
