package session

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// SessionName is the name of the session cookie
	SessionName = "trainerhub_session"

	// TokenKey is the session key for storing the JWT
	TokenKey = "token"

	maxAge = 7 * 24 * 60 * 60
)

// ErrNoToken is returned when the session carries no token
var ErrNoToken = errors.New("no token in session")

// Manager keeps the caller's signed JWT in an encrypted cookie
type Manager struct {
	store *sessions.CookieStore
}

// NewManager creates a new session manager.
// secretKey authenticates the cookie; 32 bytes recommended.
func NewManager(secretKey []byte, secure bool) *Manager {
	store := sessions.NewCookieStore(secretKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// SetToken stores the JWT in the session
func (m *Manager) SetToken(r *http.Request, w http.ResponseWriter, token string) error {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		// undecodable cookie, start over
		session, _ = m.store.New(r, SessionName)
	}
	session.Values[TokenKey] = token
	return session.Save(r, w)
}

// GetToken retrieves the JWT from the session
func (m *Manager) GetToken(r *http.Request) (string, error) {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return "", err
	}
	token, ok := session.Values[TokenKey].(string)
	if !ok || token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// ClearToken expires the session cookie
func (m *Manager) ClearToken(r *http.Request, w http.ResponseWriter) error {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
