// Package alias translates symbolic path roots such as "@webroot" into
// concrete filesystem paths or URL prefixes.
//
// An alias is a name starting with "@". A path is resolved by replacing its
// longest matching alias prefix, where a match is either the whole path or
// the alias followed by "/". Paths that do not start with "@" pass through
// unchanged.
package alias

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownAlias is returned when a path starts with an unregistered alias.
var ErrUnknownAlias = errors.New("unknown alias")

// ErrInvalidAlias is returned when registering a name that does not start with "@".
var ErrInvalidAlias = errors.New("alias must start with @")

// Map resolves aliases from an in-memory table. The zero value is not
// usable; create one with New.
type Map struct {
	mu      sync.RWMutex
	aliases map[string]string
}

// New returns a Map preloaded with the given aliases. Targets may refer to
// other aliases in the same table regardless of map order.
func New(aliases map[string]string) (*Map, error) {
	m := &Map{aliases: make(map[string]string)}

	pending := make(map[string]string, len(aliases))
	for name, target := range aliases {
		pending[name] = target
	}
	for len(pending) > 0 {
		var lastErr error
		progressed := false
		for name, target := range pending {
			if err := m.Set(name, target); err != nil {
				lastErr = err
				continue
			}
			delete(pending, name)
			progressed = true
		}
		if !progressed {
			return nil, lastErr
		}
	}
	return m, nil
}

// Set registers name as an alias for target. A target that is itself aliased
// is resolved immediately. Trailing slashes are dropped from target.
func (m *Map) Set(name, target string) error {
	if !strings.HasPrefix(name, "@") || len(name) < 2 {
		return fmt.Errorf("%w: %q", ErrInvalidAlias, name)
	}
	resolved, err := m.Resolve(target)
	if err != nil {
		return err
	}
	if len(resolved) > 1 {
		resolved = strings.TrimRight(resolved, "/")
	}

	m.mu.Lock()
	m.aliases[strings.TrimRight(name, "/")] = resolved
	m.mu.Unlock()
	return nil
}

// Resolve replaces the longest matching alias prefix of path.
func (m *Map) Resolve(path string) (string, error) {
	if !strings.HasPrefix(path, "@") {
		return path, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	best := ""
	for name := range m.aliases {
		if (path == name || strings.HasPrefix(path, name+"/")) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlias, path)
	}
	return m.aliases[best] + path[len(best):], nil
}
