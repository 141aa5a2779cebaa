package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUploader(t *testing.T) {
	root := t.TempDir()
	u := NewLocalUploader(root, "http://localhost:8080/uploads/")

	res, err := u.Upload(context.Background(), File{
		Name:    "my cv.pdf",
		Content: strings.NewReader("%PDF-1.7"),
	}, "consultants/cv")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.SecureURL, "http://localhost:8080/uploads/consultants/cv/"))
	assert.True(t, strings.HasSuffix(res.SecureURL, "-my_cv.pdf"))

	stored := strings.TrimPrefix(res.SecureURL, "http://localhost:8080/uploads/")
	body, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(stored)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(body))
}

func TestLocalUploaderStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	u := NewLocalUploader(root, "http://files")

	res, err := u.Upload(context.Background(), File{
		Name:    "../../etc/passwd",
		Content: strings.NewReader("x"),
	}, "../../outside")
	require.NoError(t, err)
	assert.NotContains(t, res.SecureURL, "..")
}

func TestLocalUploaderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocalUploader(t.TempDir(), "http://files").Upload(ctx, File{Name: "a", Content: strings.NewReader("")}, "f")
	assert.ErrorIs(t, err, context.Canceled)
}
