package commitstore

import (
	"encoding/binary"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/fxamacker/cbor/v2"

	"github.com/0xrafi/degen-score/pkg/common/commitstore"
)

const (
	commitPrefix = "c/"
	seqKey       = "m/seq"
)

// PebbleCommitStore persists the commitment ledger in a Pebble database.
// The append-only contract is the same as the in-memory store's; the
// sequence counter survives restarts.
type PebbleCommitStore struct {
	lock sync.Mutex
	db   *pebble.DB
	seq  uint64
}

func NewPebbleCommitStore(path string) (*PebbleCommitStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}

	cs := &PebbleCommitStore{db: db}

	value, closer, err := db.Get([]byte(seqKey))
	switch err {
	case nil:
		cs.seq = binary.BigEndian.Uint64(value)
		closer.Close()
	case pebble.ErrNotFound:
	default:
		db.Close()
		return nil, err
	}

	return cs, nil
}

func (cs *PebbleCommitStore) Append(ref string, commitment *commitstore.Commitment) error {
	if commitment == nil {
		return ErrNilCommitment
	}

	cs.lock.Lock()
	defer cs.lock.Unlock()

	key := []byte(commitPrefix + ref)

	_, closer, err := cs.db.Get(key)
	if err == nil {
		closer.Close()
		return ErrCommitmentExists
	}
	if err != pebble.ErrNotFound {
		return err
	}

	commitment.Seq = cs.seq + 1
	value, err := cbor.Marshal(commitment)
	if err != nil {
		return err
	}

	var seqBuf [8]byte
	binary.BigEndian.PutUint64(seqBuf[:], commitment.Seq)

	batch := cs.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(key, value, nil); err != nil {
		return err
	}
	if err := batch.Set([]byte(seqKey), seqBuf[:], nil); err != nil {
		return err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return err
	}

	cs.seq = commitment.Seq
	return nil
}

func (cs *PebbleCommitStore) Get(ref string) (*commitstore.Commitment, error) {
	value, closer, err := cs.db.Get([]byte(commitPrefix + ref))
	if err == pebble.ErrNotFound {
		return nil, ErrCommitmentNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	commitment := new(commitstore.Commitment)
	if err := cbor.Unmarshal(value, commitment); err != nil {
		return nil, err
	}

	return commitment, nil
}

func (cs *PebbleCommitStore) Contains(ref string) (bool, error) {
	_, closer, err := cs.db.Get([]byte(commitPrefix + ref))
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()

	return true, nil
}

func (cs *PebbleCommitStore) Close() error {
	return cs.db.Close()
}
