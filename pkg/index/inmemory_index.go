package index

import (
	"sync"

	"github.com/0xrafi/degen-score/pkg/common/index"
)

// InMemoryIndex is the owner-private slot to commitment-ref mapping. It is
// deliberately memory-only: persisting it globally would let outsiders
// enumerate a key's commitments.
type InMemoryIndex struct {
	lock  sync.RWMutex
	slots map[string]string
}

func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{
		slots: make(map[string]string),
	}
}

func (idx *InMemoryIndex) Import(slot string, ref string) error {
	idx.lock.Lock()
	defer idx.lock.Unlock()

	if _, ok := idx.slots[slot]; ok {
		return index.ErrSlotExists
	}
	idx.slots[slot] = ref

	return nil
}

func (idx *InMemoryIndex) Get(slot string) (string, error) {
	idx.lock.RLock()
	defer idx.lock.RUnlock()

	ref, ok := idx.slots[slot]
	if !ok {
		return "", index.ErrSlotNotFound
	}

	return ref, nil
}

func (idx *InMemoryIndex) Advance(slot string, ref string) error {
	idx.lock.Lock()
	defer idx.lock.Unlock()

	if _, ok := idx.slots[slot]; !ok {
		return index.ErrSlotNotFound
	}
	idx.slots[slot] = ref

	return nil
}

func (idx *InMemoryIndex) Delete(slot string) error {
	idx.lock.Lock()
	defer idx.lock.Unlock()

	delete(idx.slots, slot)

	return nil
}
