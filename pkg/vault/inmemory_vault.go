package vault

import (
	"errors"
	"sync"
)

var (
	ErrOpeningNotFound = errors.New("vault: opening not found")
)

// InMemoryVault holds the owner's opening data per commitment ref. Openings
// of superseded commitments are kept: they are the only way history can be
// reconstructed, and only the owner holds this store.
type InMemoryVault struct {
	lock     sync.RWMutex
	openings map[string][]byte
}

func NewInMemoryVault() *InMemoryVault {
	return &InMemoryVault{
		openings: make(map[string][]byte),
	}
}

func (v *InMemoryVault) Import(ref string, opening []byte) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.openings[ref] = opening
	return nil
}

func (v *InMemoryVault) Get(ref string) ([]byte, error) {
	v.lock.RLock()
	defer v.lock.RUnlock()

	opening, ok := v.openings[ref]
	if !ok {
		return nil, ErrOpeningNotFound
	}
	return opening, nil
}

func (v *InMemoryVault) Delete(ref string) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	delete(v.openings, ref)
	return nil
}
