// Package session exposes the persisted client-side identity. The wizard
// receives it as an injected dependency and only ever reads it; managing
// the session itself belongs to the portal's auth flow, not to this tool.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skyvaultcloud/skyvault/internal/logger"
)

// Identity is the current user as recorded by the portal's sign-in flow.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Provider resolves the current session identity. The wizard takes a
// Provider instead of reading ambient storage, so tests can inject one.
type Provider interface {
	Current() (*Identity, error)
}

// FileProvider reads the identity from the persisted session file.
type FileProvider struct {
	path string
}

// Path returns the session file location under the user config dir,
// ~/.config/skyvault/session.json by default.
func Path() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "skyvault", "session.json")
}

// NewFileProvider creates a provider over the given file; an empty path
// uses the default location.
func NewFileProvider(path string) *FileProvider {
	if path == "" {
		path = Path()
	}
	return &FileProvider{path: path}
}

// Current loads the persisted identity. A missing file is an error here:
// the portal cannot file requests for an anonymous user.
func (p *FileProvider) Current() (*Identity, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no session found at %s: sign in through the portal first", p.path)
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var ident Identity
	if err := json.Unmarshal(data, &ident); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	if ident.Email == "" {
		return nil, fmt.Errorf("session at %s has no email", p.path)
	}

	logger.Debug("Loaded session for %s", ident.Email)
	return &ident, nil
}

// Static is a fixed-identity provider for tests and scripted use.
type Static struct {
	Identity Identity
}

// Current returns the fixed identity.
func (s Static) Current() (*Identity, error) {
	ident := s.Identity
	return &ident, nil
}
