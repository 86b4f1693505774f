package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Store persists the session between CLI invocations: the logged-in
// user plus the credential cookies for the configured backend.
type Store struct {
	path string
}

// DefaultDir returns the taskcal config directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "taskcal"), nil
}

// NewStore creates a session store rooted at dir. An empty dir selects
// the default config directory.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	return &Store{path: filepath.Join(dir, "session.json")}, nil
}

// Path returns the backing file path.
func (st *Store) Path() string { return st.path }

type persistedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type fileState struct {
	User    User              `json:"user"`
	Active  bool              `json:"active"`
	Cookies []persistedCookie `json:"cookies"`
	SavedAt time.Time         `json:"saved_at"`
}

// Save writes the session and the cookies currently held for base.
func (st *Store) Save(s *Session, jar http.CookieJar, base *url.URL) error {
	user, active := s.User()
	state := fileState{
		User:    user,
		Active:  active,
		SavedAt: time.Now(),
	}
	if jar != nil {
		for _, ck := range jar.Cookies(base) {
			state.Cookies = append(state.Cookies, persistedCookie{Name: ck.Name, Value: ck.Value})
		}
	}

	if err := os.MkdirAll(filepath.Dir(st.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(st.path, data, 0o600)
}

// Load restores a previously saved session into s and seeds jar with
// the persisted cookies. A missing file is not an error; the session
// is simply left logged out.
func (st *Store) Load(s *Session, jar http.CookieJar, base *url.URL) error {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	if !state.Active {
		return nil
	}

	s.Begin(state.User)
	if jar != nil && len(state.Cookies) > 0 {
		cookies := make([]*http.Cookie, 0, len(state.Cookies))
		for _, ck := range state.Cookies {
			cookies = append(cookies, &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"})
		}
		jar.SetCookies(base, cookies)
	}
	return nil
}

// Clear removes the persisted session. Missing files are fine.
func (st *Store) Clear() error {
	err := os.Remove(st.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
