package record

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/0xrafi/degen-score/lib/params"
	"github.com/0xrafi/degen-score/pkg/common/attest"
	com_commitment "github.com/0xrafi/degen-score/pkg/common/commitment"
	"github.com/0xrafi/degen-score/pkg/common/commitstore"
	"github.com/0xrafi/degen-score/pkg/common/index"
	"github.com/0xrafi/degen-score/pkg/common/invalidation"
	"github.com/0xrafi/degen-score/pkg/common/record"
	"github.com/0xrafi/degen-score/pkg/common/vault"
)

var (
	ErrAlreadyInitialized = errors.New("record: already initialized")
	ErrNoLiveRecord       = errors.New("record: no live record")
	ErrContentionExceeded = errors.New("record: contention retries exhausted")
	ErrNotOwner           = errors.New("record: payload not bound to this owner")
	ErrOpeningMismatch    = errors.New("record: opening does not match commitment")
	ErrInvalidConfig      = errors.New("record: invalid config")
)

// DefaultMaxAttempts bounds the Update retry loop under contention.
const DefaultMaxAttempts = 8

// Config assembles a RecordManager from its collaborators.
type Config struct {
	CommitStore  commitstore.CommitStore
	Invalidation invalidation.Set
	Index        index.IndexStore
	Vault        vault.Vault
	Scheme       com_commitment.Scheme

	// Verifier gates Replace/Update. Use attest.NewOpenVerifier() for the
	// unguarded policy.
	Verifier attest.Verifier

	// OwnerSecret derives the private slots and owner tags for every key
	// this manager handles. Must be params.SecBytes long.
	OwnerSecret []byte

	// MaxAttempts bounds Update retries; 0 means DefaultMaxAttempts.
	MaxAttempts int
}

// RecordManager mediates the per-key record lifecycle over an append-only
// commitment ledger and invalidation set. All mutation is additive: a
// replace emits the old commitment's invalidation tag and appends a new
// commitment, atomically from any reader's point of view.
type RecordManager struct {
	// mu serializes the commit step of replaces against reads, standing in
	// for the ledger's own write serialization.
	mu sync.RWMutex

	cs       commitstore.CommitStore
	inv      invalidation.Set
	idx      index.IndexStore
	vault    vault.Vault
	scheme   com_commitment.Scheme
	verifier attest.Verifier

	secret      []byte
	maxAttempts int
}

var _ record.Records = (*RecordManager)(nil)

func NewRecordManager(cfg *Config) (*RecordManager, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if cfg.CommitStore == nil || cfg.Invalidation == nil || cfg.Index == nil ||
		cfg.Vault == nil || cfg.Scheme == nil || cfg.Verifier == nil {
		return nil, fmt.Errorf("%w: nil collaborator", ErrInvalidConfig)
	}
	if len(cfg.OwnerSecret) != params.SecBytes {
		return nil, fmt.Errorf("%w: owner secret must be %d bytes", ErrInvalidConfig, params.SecBytes)
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &RecordManager{
		cs:          cfg.CommitStore,
		inv:         cfg.Invalidation,
		idx:         cfg.Index,
		vault:       cfg.Vault,
		scheme:      cfg.Scheme,
		verifier:    cfg.Verifier,
		secret:      cfg.OwnerSecret,
		maxAttempts: maxAttempts,
	}, nil
}

// Initialize creates the first commitment for key with the given payload.
// It is the creation boundary of the record's lifecycle: at most one call
// per key succeeds.
func (m *RecordManager) Initialize(key []byte, payload record.Payload) error {
	slot, err := deriveSlot(m.secret, key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.idx.Get(slotKey(slot)); err == nil {
		return ErrAlreadyInitialized
	} else if !errors.Is(err, index.ErrSlotNotFound) {
		return err
	}

	payload.OwnerTag = deriveOwnerTag(m.secret, key)
	ref, err := m.append(slot, payload)
	if err != nil {
		return err
	}
	return m.idx.Import(slotKey(slot), ref)
}

// Replace supersedes the live commitment with one holding payload. It does
// not retry: callers racing on the same key must handle ErrDuplicateTag
// themselves, or use Update.
func (m *RecordManager) Replace(key []byte, payload record.Payload) error {
	op, err := m.prepareReplace(key)
	if err != nil {
		return err
	}
	return op.commit(payload)
}

// Update is the caller-facing replace protocol: read the live payload,
// compute its successor, check the attestation, commit; on contention,
// re-read and retry up to MaxAttempts times.
func (m *RecordManager) Update(key []byte, att attest.Attestation, next func(record.Payload) (record.Payload, error)) (record.Payload, error) {
	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		op, err := m.prepareReplace(key)
		if err != nil {
			return record.Payload{}, err
		}

		payload, err := next(op.Current())
		if err != nil {
			return record.Payload{}, err
		}
		payload.OwnerTag = deriveOwnerTag(m.secret, key)

		pb, err := payload.Bytes()
		if err != nil {
			return record.Payload{}, err
		}
		if err := m.verifier.Verify(att, key, pb); err != nil {
			return record.Payload{}, err
		}

		if err := op.commit(payload); err != nil {
			if errors.Is(err, invalidation.ErrDuplicateTag) {
				// lost the race; re-read the new live commitment
				continue
			}
			return record.Payload{}, err
		}
		return payload, nil
	}
	return record.Payload{}, ErrContentionExceeded
}

// Read opens the live commitment for key and returns its payload.
func (m *RecordManager) Read(key []byte) (record.Payload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	live, err := m.readLive(key)
	if err != nil {
		return record.Payload{}, err
	}
	return live.payload, nil
}

// liveState is the opened view of a key's current live commitment.
type liveState struct {
	slot    []byte
	ref     string
	opening openingRecord
	payload record.Payload
}

// readLive locates and opens the live commitment. Callers hold at least a
// read lock.
func (m *RecordManager) readLive(key []byte) (liveState, error) {
	slot, err := deriveSlot(m.secret, key)
	if err != nil {
		return liveState{}, err
	}

	ref, err := m.idx.Get(slotKey(slot))
	if errors.Is(err, index.ErrSlotNotFound) {
		return liveState{}, ErrNoLiveRecord
	} else if err != nil {
		return liveState{}, err
	}

	ob, err := m.vault.Get(ref)
	if err != nil {
		return liveState{}, fmt.Errorf("record: opening data missing for live commitment: %w", err)
	}
	opening, err := openingRecordFromBytes(ob)
	if err != nil {
		return liveState{}, err
	}

	// live iff its invalidation tag has not been emitted
	dead, err := m.inv.Contains(deriveTag(opening.Opening, opening.Digest))
	if err != nil {
		return liveState{}, err
	}
	if dead {
		return liveState{}, ErrNoLiveRecord
	}

	cmt, err := m.cs.Get(ref)
	if err != nil {
		return liveState{}, err
	}
	if !bytes.Equal(cmt.Digest, opening.Digest) {
		return liveState{}, ErrOpeningMismatch
	}
	if !m.scheme.Verify(opening.Digest, opening.Opening, slot, opening.Payload) {
		return liveState{}, ErrOpeningMismatch
	}

	payload, err := record.PayloadFromBytes(opening.Payload)
	if err != nil {
		return liveState{}, err
	}
	if !bytes.Equal(payload.OwnerTag, deriveOwnerTag(m.secret, key)) {
		return liveState{}, ErrNotOwner
	}

	return liveState{slot: slot, ref: ref, opening: opening, payload: payload}, nil
}

// append commits payload under slot, stores the opening data, and returns
// the new ref. The commitment is unreferenced until the caller binds the ref
// into the index. Caller holds the write lock.
func (m *RecordManager) append(slot []byte, payload record.Payload) (string, error) {
	pb, err := payload.Bytes()
	if err != nil {
		return "", err
	}

	digest, opening, err := m.scheme.Commit(slot, pb)
	if err != nil {
		return "", err
	}

	ob, err := (&openingRecord{Payload: pb, Opening: opening, Digest: digest}).bytes()
	if err != nil {
		return "", err
	}

	ref := uuid.New().String()
	if err := m.cs.Append(ref, &commitstore.Commitment{Digest: digest}); err != nil {
		return "", err
	}
	if err := m.vault.Import(ref, ob); err != nil {
		return "", err
	}
	return ref, nil
}
