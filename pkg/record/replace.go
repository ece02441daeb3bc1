package record

import (
	"github.com/0xrafi/degen-score/pkg/common/invalidation"
	"github.com/0xrafi/degen-score/pkg/common/record"
)

// replaceOp is one optimistic replace attempt. prepare reads the live
// commitment without holding any lock across the attempt; commit races
// other writers on the observed commitment's invalidation tag, and only
// the first emitter wins.
type replaceOp struct {
	m       *RecordManager
	key     []byte
	base    liveState
	baseTag []byte
}

func (m *RecordManager) prepareReplace(key []byte) (*replaceOp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	base, err := m.readLive(key)
	if err != nil {
		return nil, err
	}

	return &replaceOp{
		m:       m,
		key:     key,
		base:    base,
		baseTag: deriveTag(base.opening.Opening, base.opening.Digest),
	}, nil
}

// Current returns the payload of the commitment this attempt supersedes.
func (op *replaceOp) Current() record.Payload {
	return op.base.payload
}

// commit appends the successor commitment, emits the base commitment's
// invalidation tag, and advances the index, in that order: a failure at any
// step leaves the base commitment live, at worst with an unreferenced orphan
// on the append-only ledger. The emit is the single-winner gate: if another
// replace already consumed the base commitment, commit fails with
// ErrDuplicateTag and the record is untouched.
func (op *replaceOp) commit(payload record.Payload) error {
	m := op.m
	payload.OwnerTag = deriveOwnerTag(m.secret, op.key)

	m.mu.Lock()
	defer m.mu.Unlock()

	dead, err := m.inv.Contains(op.baseTag)
	if err != nil {
		return err
	}
	if dead {
		return invalidation.ErrDuplicateTag
	}

	ref, err := m.append(op.base.slot, payload)
	if err != nil {
		return err
	}
	if err := m.inv.Emit(op.baseTag); err != nil {
		return err
	}
	return m.idx.Advance(slotKey(op.base.slot), ref)
}
