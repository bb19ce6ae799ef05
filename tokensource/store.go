package tokensource

import "sync"

// Store holds the current token of one client instance.
//
// Reads return copies, so a caller holding a previously read token keeps
// observing the old value after a refresh replaces it. Store serializes access
// to its field only; it does not serialize refreshes.
type Store struct {
	mu    sync.RWMutex
	token *Token
}

// NewStore creates a Store, optionally seeded with an existing token.
func NewStore(tok *Token) *Store {
	s := &Store{}
	if tok != nil {
		s.Set(*tok)
	}
	return s
}

// Token returns a copy of the current token and whether one is set.
func (s *Store) Token() (Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == nil {
		return Token{}, false
	}
	return *s.token, true
}

// Set replaces the current token.
func (s *Store) Set(tok Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = &tok
}
