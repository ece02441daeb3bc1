package invalidation

import (
	"encoding/hex"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/0xrafi/degen-score/pkg/common/invalidation"
)

const tagPrefix = "t/"

// PebbleSet persists the invalidation set in a Pebble database. Emit is
// serialized by a mutex so the duplicate check and the insert are atomic
// with respect to concurrent writers.
type PebbleSet struct {
	lock sync.Mutex
	db   *pebble.DB
}

func NewPebbleSet(path string) (*PebbleSet, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleSet{db: db}, nil
}

func (s *PebbleSet) Emit(tag []byte) error {
	key := []byte(tagPrefix + hex.EncodeToString(tag))

	s.lock.Lock()
	defer s.lock.Unlock()

	_, closer, err := s.db.Get(key)
	if err == nil {
		closer.Close()
		return invalidation.ErrDuplicateTag
	}
	if err != pebble.ErrNotFound {
		return err
	}

	return s.db.Set(key, []byte{}, pebble.Sync)
}

func (s *PebbleSet) Contains(tag []byte) (bool, error) {
	_, closer, err := s.db.Get([]byte(tagPrefix + hex.EncodeToString(tag)))
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()

	return true, nil
}

func (s *PebbleSet) Close() error {
	return s.db.Close()
}
