// Package upload stores client-submitted files under folder-scoped paths.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Rejection reasons surfaced to the HTTP boundary.
var (
	ErrNoFile         = errors.New("no file uploaded")
	ErrDisallowedType = errors.New("only images and documents allowed")
	ErrTooLarge       = errors.New("file exceeds size limit")
	ErrInvalidFolder  = errors.New("invalid folder name")
)

var allowedExtensions = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true,
	".pdf": true, ".doc": true, ".docx": true,
}

// Folder names come from the client; anything outside this allowlist is
// rejected rather than sanitized into a traversal path.
var folderPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

const defaultFolder = "general"

// Result describes a stored file.
type Result struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
	Folder       string `json:"folder"`
}

// Store writes uploads beneath a base directory with a per-request folder.
type Store struct {
	baseDir  string
	maxBytes int64
	now      func() time.Time
}

// NewStore creates a Store rooted at baseDir enforcing maxBytes per file.
func NewStore(baseDir string, maxBytes int64) *Store {
	return &Store{baseDir: baseDir, maxBytes: maxBytes, now: time.Now}
}

// Save validates folder, extension and size, then writes the file as
// <unix-millis>-<original-name> inside the folder.
func (s *Store) Save(header *multipart.FileHeader, folder string) (Result, error) {
	if header == nil {
		return Result{}, ErrNoFile
	}

	folder = strings.TrimSpace(folder)
	if folder == "" {
		folder = defaultFolder
	}
	if !folderPattern.MatchString(folder) {
		return Result{}, ErrInvalidFolder
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return Result{}, ErrDisallowedType
	}
	if header.Size > s.maxBytes {
		return Result{}, ErrTooLarge
	}

	dir := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), filepath.Base(header.Filename))
	dest := filepath.Join(dir, name)

	src, err := header.Open()
	if err != nil {
		return Result{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return Result{}, fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return Result{}, fmt.Errorf("write file: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(dest)
		return Result{}, ErrTooLarge
	}

	return Result{
		Filename:     name,
		OriginalName: header.Filename,
		Size:         written,
		Path:         dest,
		Folder:       folder,
	}, nil
}
