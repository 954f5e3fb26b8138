package quality

import (
	"sync"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/platform"
)

// Session is the per-user transient state between sending a URL and picking a
// quality. A new URL overwrites it; nothing survives a process restart.
type Session struct {
	URL        string
	Platform   platform.Platform
	Catalog    []Option
	Generation uint64
}

// Sessions is an in-memory per-user session store. Each SetCatalog bumps the
// user's generation counter, invalidating every token minted for the
// previous catalog.
type Sessions struct {
	mu     sync.RWMutex
	byUser map[int64]*Session
}

// NewSessions creates an empty session store.
func NewSessions() *Sessions {
	return &Sessions{byUser: make(map[int64]*Session)}
}

// SetCatalog makes catalog the live one for the user, assigning tokens to its
// options under a fresh generation. The returned session is a snapshot safe
// to read without holding the store lock.
func (s *Sessions) SetCatalog(userID int64, url string, p platform.Platform, catalog []Option) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	generation := uint64(1)
	if prev, ok := s.byUser[userID]; ok {
		generation = prev.Generation + 1
	}

	live := make([]Option, len(catalog))
	copy(live, catalog)
	for i := range live {
		live[i].Token = EncodeOption(generation, i)
	}

	session := &Session{
		URL:        url,
		Platform:   p,
		Catalog:    live,
		Generation: generation,
	}
	s.byUser[userID] = session
	return *session
}

// Resolve decodes a selection token against the user's live catalog. A token
// from an overwritten catalog fails with ErrTokenStale; a token for an
// unknown user or with a malformed payload fails with ErrTokenInvalid.
func (s *Sessions) Resolve(userID int64, token string) (Session, Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.byUser[userID]
	if !ok {
		return Session{}, Selection{}, ErrTokenInvalid
	}
	selection, err := decodeToken(token, session.Catalog, session.Generation)
	if err != nil {
		return Session{}, Selection{}, err
	}
	return *session, selection, nil
}
