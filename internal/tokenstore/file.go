package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"github.com/nkiryanov/gestiondocente/internal/models"
)

// File store keeps tokens in a dotenv formatted file:
//
//	accessToken="eyJ..."
//	refreshToken="eyJ..."
//
// The file is rewritten atomically on every change and readable by the owner only.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("token file path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("error while creating token file directory. Err: %w", err)
	}

	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Set(_ context.Context, kind models.TokenKind, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}

	values[string(kind)] = value
	return s.write(values)
}

func (s *FileStore) Get(_ context.Context, kind models.TokenKind) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}

	return values[string(kind)], nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error while removing token file. Err: %w", err)
	}

	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	values, err := godotenv.Read(s.path)

	switch {
	case err == nil:
		return values, nil
	case errors.Is(err, fs.ErrNotExist):
		return make(map[string]string, len(Kinds)), nil
	default:
		return nil, fmt.Errorf("error while reading token file. Err: %w", err)
	}
}

// write replaces the file with temp file + rename, so readers never see partial content
func (s *FileStore) write(values map[string]string) error {
	content, err := godotenv.Marshal(values)
	if err != nil {
		return fmt.Errorf("error while encoding tokens. Err: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tokens-*")
	if err != nil {
		return fmt.Errorf("error while creating temp token file. Err: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error while setting token file mode. Err: %w", err)
	}
	if _, err := tmp.WriteString(content + "\n"); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error while writing token file. Err: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error while closing token file. Err: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("error while replacing token file. Err: %w", err)
	}

	return nil
}
