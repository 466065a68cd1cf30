package watcher

import "sync"

// SignatureSet is a concurrency-safe set of seen transaction signatures.
// Membership test and insert happen under one lock so two near-simultaneous
// notifications for the same signature cannot both pass.
type SignatureSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewSignatureSet creates an empty set.
func NewSignatureSet() *SignatureSet {
	return &SignatureSet{seen: make(map[string]struct{})}
}

// CheckAndInsert records the signature and reports whether it was new.
func (s *SignatureSet) CheckAndInsert(signature string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[signature]; ok {
		return false
	}
	s.seen[signature] = struct{}{}
	return true
}

// Len returns the number of recorded signatures.
func (s *SignatureSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
