package commitstore

import (
	"errors"
	"sync"

	"github.com/0xrafi/degen-score/pkg/common/commitstore"
)

var (
	ErrCommitmentExists   = errors.New("commitstore: commitment already exists")
	ErrCommitmentNotFound = errors.New("commitstore: commitment not found")
	ErrNilCommitment      = errors.New("commitstore: nil commitment")
)

type InMemoryCommitStore struct {
	lock  sync.RWMutex
	seq   uint64
	store map[string]*commitstore.Commitment
}

func NewInMemoryCommitStore() *InMemoryCommitStore {
	return &InMemoryCommitStore{
		store: make(map[string]*commitstore.Commitment),
	}
}

// Append inserts a commitment under ref. The store is append-only: a ref can
// never be overwritten, so a duplicate ref fails with ErrCommitmentExists.
func (cs *InMemoryCommitStore) Append(ref string, commitment *commitstore.Commitment) error {
	if commitment == nil {
		return ErrNilCommitment
	}

	cs.lock.Lock()
	defer cs.lock.Unlock()

	if _, ok := cs.store[ref]; ok {
		return ErrCommitmentExists
	}

	cs.seq++
	commitment.Seq = cs.seq
	cs.store[ref] = commitment

	return nil
}

func (cs *InMemoryCommitStore) Get(ref string) (*commitstore.Commitment, error) {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	commitment, ok := cs.store[ref]
	if !ok {
		return nil, ErrCommitmentNotFound
	}

	return commitment, nil
}

func (cs *InMemoryCommitStore) Contains(ref string) (bool, error) {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	_, ok := cs.store[ref]
	return ok, nil
}
