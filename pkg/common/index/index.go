package index

import "errors"

var (
	ErrSlotNotFound = errors.New("index: slot not found")
	ErrSlotExists   = errors.New("index: slot already bound")
)

// IndexStore maps an owner-derived slot to the ref of the key's current
// live commitment. The mapping is private to the owner: implementations
// must never expose it through globally readable storage.
type IndexStore interface {
	// Import binds slot to ref for the first time; fails with ErrSlotExists
	// if the slot is already bound.
	Import(slot string, ref string) error

	// Get returns the ref currently bound to slot.
	Get(slot string) (string, error)

	// Advance rebinds slot to the ref of a successor commitment; fails with
	// ErrSlotNotFound if the slot was never bound.
	Advance(slot string, ref string) error

	// Delete unbinds slot.
	Delete(slot string) error
}
