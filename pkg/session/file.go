package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// AuthFileName is the name of the credential file inside the store directory.
const AuthFileName = "auth.json"

type authFile struct {
	HTTPBasic map[string]Credential `json:"http-basic,omitempty"`
}

// FileStore persists session credentials between runs.
type FileStore struct {
	mu      sync.Mutex
	fs      afero.Fs
	baseDir string
}

// NewFileStore creates a store in baseDir on the real filesystem.
// If baseDir is empty, defaults to ~/.config/composer/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "composer")
	}
	return NewFileStoreFs(afero.NewOsFs(), baseDir)
}

// NewFileStoreFs creates a store in baseDir on fs.
func NewFileStoreFs(fs afero.Fs, baseDir string) (*FileStore, error) {
	if err := fs.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create auth dir: %w", err)
	}
	return &FileStore{fs: fs, baseDir: baseDir}, nil
}

// Path returns the credential file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.baseDir, AuthFileName)
}

// Load merges the stored credentials into sess. Credentials already in the
// session win. A missing file is not an error.
func (s *FileStore) Load(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.read()
	if err != nil {
		return err
	}
	for host, c := range stored.HTTPBasic {
		if !sess.HasAuthorization(host) {
			sess.SetAuthorization(host, c.Username, c.Password)
		}
	}
	return nil
}

// Save writes every credential of sess, keeping stored entries for other
// hosts and any other content of the file.
func (s *FileStore) Save(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := map[string]json.RawMessage{}
	if data, err := afero.ReadFile(s.fs, s.Path()); err == nil {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse auth file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read auth file: %w", err)
	}

	stored, err := s.read()
	if err != nil {
		return err
	}
	if stored.HTTPBasic == nil {
		stored.HTTPBasic = make(map[string]Credential)
	}
	for host, c := range sess.Authorizations() {
		stored.HTTPBasic[host] = c
	}

	section, err := json.Marshal(stored.HTTPBasic)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	raw["http-basic"] = section

	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal auth file: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("write auth file: %w", err)
	}
	return nil
}

// Delete removes the credential file.
func (s *FileStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove auth file: %w", err)
	}
	return nil
}

func (s *FileStore) read() (authFile, error) {
	var f authFile
	data, err := afero.ReadFile(s.fs, s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, fmt.Errorf("read auth file: %w", err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse auth file: %w", err)
	}
	return f, nil
}
