// Package session resolves the opaque per-client session identifier that is
// threaded into every chat and chart request.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrUnresolved is returned in strict mode when no identifier could be
// loaded or created.
var ErrUnresolved = errors.New("session: identifier could not be resolved")

// Manager resolves the session identifier exactly once per process lifetime
// and treats it as immutable afterwards.
//
// In lenient mode (the default) a failed resolution yields the empty string,
// matching the original client, which sends unattributed requests rather
// than blocking. Strict mode surfaces the failure instead.
type Manager struct {
	path   string
	strict bool

	once sync.Once
	id   string
	err  error
}

// NewManager creates a manager persisting the identifier at path. An empty
// path selects the default location under the user config dir.
func NewManager(path string, strict bool) *Manager {
	return &Manager{path: path, strict: strict}
}

// ID returns the session identifier. The first call loads the persisted
// value or mints and stores a new one; later calls return the cached result.
func (m *Manager) ID() (string, error) {
	m.once.Do(func() {
		m.id, m.err = m.resolve()
	})

	if m.err != nil {
		if m.strict {
			return "", fmt.Errorf("%w: %v", ErrUnresolved, m.err)
		}
		return "", nil
	}
	return m.id, nil
}

func (m *Manager) resolve() (string, error) {
	path := m.path
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locate config dir: %w", err)
		}
		path = filepath.Join(dir, "docchat", "session_id")
	}

	if raw, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(raw)); id != "" {
			return id, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read session file: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("persist session id: %w", err)
	}
	return id, nil
}
