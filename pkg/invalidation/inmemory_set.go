package invalidation

import (
	"encoding/hex"
	"sync"

	"github.com/0xrafi/degen-score/pkg/common/invalidation"
)

type InMemorySet struct {
	lock sync.RWMutex
	tags map[string]struct{}
}

func NewInMemorySet() *InMemorySet {
	return &InMemorySet{
		tags: make(map[string]struct{}),
	}
}

// Emit inserts tag. Re-emitting a tag fails with ErrDuplicateTag rather than
// being ignored: a duplicate means a second replace tried to consume an
// already superseded commitment, and exactly one writer may win.
func (s *InMemorySet) Emit(tag []byte) error {
	k := hex.EncodeToString(tag)

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.tags[k]; ok {
		return invalidation.ErrDuplicateTag
	}
	s.tags[k] = struct{}{}

	return nil
}

func (s *InMemorySet) Contains(tag []byte) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	_, ok := s.tags[hex.EncodeToString(tag)]
	return ok, nil
}
