package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrRejected wraps every reason an upload is refused: size cap, file
// type, or a failed write. Callers treat all of them as a rejected
// upload, never as a fatal error.
var ErrRejected = errors.New("upload rejected")

// Store validates uploaded attachments and persists the accepted ones
// under a root directory. It has no dependency on the relational store.
type Store struct {
	root     string
	maxBytes int64
	allowed  map[string]struct{}
}

func NewStore(root string, maxBytes int64, allowedExts []string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", root, err)
	}
	allowed := make(map[string]struct{}, len(allowedExts))
	for _, ext := range allowedExts {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Store{
		root:     root,
		maxBytes: maxBytes,
		allowed:  allowed,
	}, nil
}

// Accept validates and persists one uploaded file, returning the stored
// relative path. The client-supplied filename is only trusted for its
// extension; the stored name is freshly generated.
func (s *Store) Accept(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxBytes {
		return "", fmt.Errorf("%w: file of %d bytes exceeds limit of %d", ErrRejected, fh.Size, s.maxBytes)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if _, ok := s.allowed[ext]; !ok {
		return "", fmt.Errorf("%w: file type %q is not allowed", ErrRejected, ext)
	}

	name := uuid.New().String() + "." + ext
	dst := filepath.Join(s.root, name)

	if err := s.save(fh, dst); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRejected, err)
	}

	return filepath.ToSlash(filepath.Join(filepath.Base(s.root), name)), nil
}

func (s *Store) save(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
