package app

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/views"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

const (
	sessionCookie      = "dsxplorer_session"
	defaultSessionIdle = 30 * time.Minute
)

// session is the browser of one web client.
type session struct {
	browser *browser.Browser

	mu        sync.Mutex
	notices   []views.Notice
	selection string
	lastSeen  time.Time
}

func (s *session) notify(message string, severity browser.Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, views.Notice{Message: message, Severity: severity})
}

// takeNotices returns the pending notices and forgets them.
func (s *session) takeNotices() []views.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	notices := s.notices
	s.notices = nil
	return notices
}

func (s *session) setSelection(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = uri
}

func (s *session) currentSelection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

type sessionStore struct {
	mu         sync.Mutex
	sessions   map[string]*session
	newBrowser func(browser.Notifier) *browser.Browser
	idle       time.Duration
	now        func() time.Time
	log        *slog.Logger
}

func newSessionStore(newBrowser func(browser.Notifier) *browser.Browser, idle time.Duration) *sessionStore {
	return &sessionStore{
		sessions:   map[string]*session{},
		newBrowser: newBrowser,
		idle:       idle,
		now:        time.Now,
		log:        slog.New(slog.DiscardHandler),
	}
}

func (st *sessionStore) get(id string) (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.mu.Lock()
	sess.lastSeen = st.now()
	sess.mu.Unlock()
	return sess, nil
}

func (st *sessionStore) create() (string, *session) {
	sess := &session{}
	sess.browser = st.newBrowser(browser.NotifierFunc(sess.notify))
	sess.browser.OnSelectionChange(sess.setSelection)
	sess.lastSeen = st.now()

	id := uuid.NewString()
	st.mu.Lock()
	st.sessions[id] = sess
	st.mu.Unlock()
	st.log.Debug("session created", slog.String("session", id))
	return id, sess
}

// sweep closes the sessions idle for longer than the idle timeout.
func (st *sessionStore) sweep() int {
	limit := st.now().Add(-st.idle)
	var expired []*session

	st.mu.Lock()
	for id, sess := range st.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(limit)
		sess.mu.Unlock()
		if idle {
			expired = append(expired, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, sess := range expired {
		sess.browser.Close()
	}
	return len(expired)
}

func (st *sessionStore) closeAll() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = map[string]*session{}
	st.mu.Unlock()
	for _, sess := range sessions {
		sess.browser.Close()
	}
}

func (st *sessionStore) count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// session returns the session of the request, creating it and setting the
// cookie when the client has none.
func (s *App) session(w http.ResponseWriter, r *http.Request) *session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			if sess, err := s.sessions.get(c.Value); err == nil {
				return sess
			}
		}
	}
	id, sess := s.sessions.create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}
