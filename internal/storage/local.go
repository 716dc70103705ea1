// Package storage keeps uploaded onboarding attachments on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/careerforge/onboarding-portal/internal/config"
)

var (
	// ErrInvalidKey is returned for keys that would escape the base directory.
	ErrInvalidKey = errors.New("invalid storage key")
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("file exceeds upload limit")
)

// StoredFile describes a saved attachment.
type StoredFile struct {
	Key      string
	FileName string
	Size     int64
	URL      string
}

// LocalStorage persists files under a base directory.
type LocalStorage struct {
	baseDir  string
	baseURL  string
	maxBytes int64
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(cfg config.StorageConfig) (*LocalStorage, error) {
	baseDir := cfg.BasePath
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &LocalStorage{
		baseDir:  baseDir,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		maxBytes: int64(maxMB) << 20,
	}, nil
}

// MaxBytes is the largest accepted upload.
func (s *LocalStorage) MaxBytes() int64 {
	return s.maxBytes
}

// SaveAttachment copies r into a new key under the job's folder. The stored
// name keeps the sanitized original file name behind a random prefix.
func (s *LocalStorage) SaveAttachment(jobID, fileName string, r io.Reader) (*StoredFile, error) {
	name := SanitizeFileName(fileName)
	prefix := SanitizeFileName(jobID)
	if prefix == "file" {
		prefix = "unassigned"
	}
	key := path.Join("onboarding", prefix, uuid.NewString()+"-"+name)

	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload directory: %w", err)
	}
	file, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	written, err := io.Copy(file, io.LimitReader(r, s.maxBytes+1))
	closeErr := file.Close()
	if err == nil && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write upload: %w", err)
	}
	return &StoredFile{Key: key, FileName: name, Size: written, URL: s.URL(key)}, nil
}

// Open returns a read-only handle for a stored file.
func (s *LocalStorage) Open(key string) (*os.File, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

// URL returns the public location of key, or the key itself when no base
// URL is configured.
func (s *LocalStorage) URL(key string) string {
	if s.baseURL == "" {
		return key
	}
	return s.baseURL + "/" + key
}

func (s *LocalStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// SanitizeFileName reduces name to a safe single path segment.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, name)
	cleaned = strings.TrimLeft(cleaned, ".")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}
