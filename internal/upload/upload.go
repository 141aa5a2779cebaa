// Package upload is the boundary to file hosting. Workflows only record
// the URL an Uploader returns.
package upload

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:generate mockgen -source=upload.go -destination=mocks/mocks.go -package=mocks Uploader

// File is an incoming document.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Result is where the stored file can be fetched.
type Result struct {
	SecureURL string
}

type Uploader interface {
	Upload(ctx context.Context, file File, folder string) (Result, error)
}

// LocalUploader writes files under a root directory and returns URLs under
// baseURL. Used for development and tests.
type LocalUploader struct {
	root    string
	baseURL string
}

func NewLocalUploader(root, baseURL string) *LocalUploader {
	return &LocalUploader{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (u *LocalUploader) Upload(ctx context.Context, file File, folder string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	folder = sanitize(folder)
	dir := filepath.Join(u.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create upload folder: %w", err)
	}

	name, err := storedName(file.Name)
	if err != nil {
		return Result{}, err
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return Result{}, fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, file.Content); err != nil {
		return Result{}, fmt.Errorf("write upload file: %w", err)
	}
	return Result{SecureURL: u.baseURL + "/" + path.Join(folder, name)}, nil
}

// storedName prefixes a random token so uploads never overwrite each other.
func storedName(original string) (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate upload name: %w", err)
	}
	base := sanitize(filepath.Base(original))
	if base == "" || base == "." {
		base = "document"
	}
	return hex.EncodeToString(b[:]) + "-" + base, nil
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "..", "")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_', r == '/':
			return r
		}
		return '_'
	}, strings.Trim(s, "/"))
}
