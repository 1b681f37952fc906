package conversation

import (
	"sync"

	"github.com/zamontech/yaqinbot/internal/entity"
	"github.com/zamontech/yaqinbot/internal/service"
)

// maxNavDepth caps the back stack at the deepest possible flow so a
// malformed client replay cannot grow it without bound.
const maxNavDepth = 7

// SearchContext carries the parameters of the current search.
type SearchContext struct {
	Origin       entity.LatLng
	HasOrigin    bool
	Category     service.Category
	RadiusMeters float64
}

// Session is the in-memory per-user conversational state, scoped to process
// lifetime. All access happens under mu, which also serializes actions for
// the user: a second action taken while one is pending queues on the lock.
type Session struct {
	mu sync.Mutex

	UserID           int64
	State            State
	Profile          entity.Profile
	ProfileCommitted bool
	Search           SearchContext

	navStack []State
	pager    *Paginator
}

// transitionTo moves to next, pushing the current state for Back.
func (s *Session) transitionTo(next State) {
	s.navStack = append(s.navStack, s.State)
	if len(s.navStack) > maxNavDepth {
		s.navStack = s.navStack[len(s.navStack)-maxNavDepth:]
	}
	s.State = next
}

// back pops the nav stack. Returns false when there is nothing to pop.
func (s *Session) back() bool {
	if len(s.navStack) == 0 {
		return false
	}
	s.State = s.navStack[len(s.navStack)-1]
	s.navStack = s.navStack[:len(s.navStack)-1]
	return true
}

// resetNav clears the back stack and jumps to a baseline state.
func (s *Session) resetNav(to State) {
	s.navStack = s.navStack[:0]
	s.State = to
}

func (s *Session) navDepth() int {
	return len(s.navStack)
}

// setResults installs a fresh result set with the cursor at the start.
func (s *Session) setResults(results []entity.Place) {
	s.pager = NewPaginator(results)
}

// clearResults drops the result set; the cursor becomes undefined with it.
func (s *Session) clearResults() {
	s.pager = nil
}

// SessionStore maps user ids to sessions. Lookup is O(1); sessions are
// created on first contact and live until process restart or explicit reset.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessionStore builds an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Get returns the session for userID, creating one at language selection
// when the user is new.
func (st *SessionStore) Get(userID int64) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[userID]; ok {
		return s
	}
	s := &Session{UserID: userID, State: StateLangSelect}
	st.sessions[userID] = s
	return s
}

// reset clears everything but the user id, returning the session to the
// first-contact baseline in place so the session lock stays valid.
func (s *Session) reset() {
	s.Profile = entity.Profile{}
	s.ProfileCommitted = false
	s.Search = SearchContext{}
	s.clearResults()
	s.resetNav(StateLangSelect)
}
