package auth

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/iatek/deptadmin/util"
)

const TokenFileName = "session.token"

// TokenStore is the single persisted credential slot: one opaque token in
// one file under the app config dir, surviving restarts until logout or a
// failed verification erases it.
type TokenStore struct {
	path string
}

func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{path: filepath.Join(dir, TokenFileName)}
}

func DefaultTokenStore() (*TokenStore, error) {
	dir, err := util.GetConfigDir()
	if err != nil {
		return nil, err
	}
	return NewTokenStore(dir), nil
}

// Load returns the persisted token, if any.
func (s *TokenStore) Load() (string, bool) {
	buf, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	token := strings.TrimSpace(string(buf))
	if token == "" {
		return "", false
	}
	return token, true
}

func (s *TokenStore) Save(token string) error {
	return os.WriteFile(s.path, []byte(token), 0600)
}

// Clear removes the persisted token. A missing file is not an error.
func (s *TokenStore) Clear() {
	os.Remove(s.path)
}
