package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	key := "resumes/abc.pdf"
	require.NoError(t, s.Save(ctx, key, strings.NewReader("%PDF-1.4"), "application/pdf"))

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))

	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	for _, key := range []string{"../etc/passwd", "resumes/../../x", "/abs", "", `a\b`} {
		err := s.Save(ctx, key, strings.NewReader("x"), "text/plain")
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestNewObjectKey(t *testing.T) {
	key := NewObjectKey("resumes", "My CV.PDF")
	assert.True(t, strings.HasPrefix(key, "resumes/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.Len(t, key, len("resumes/")+36+len(".pdf"))
}

func TestNewStorage_Unsupported(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}
