package record

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/0xrafi/degen-score/pkg/attest"
	"github.com/0xrafi/degen-score/pkg/commitstore"
	com_attest "github.com/0xrafi/degen-score/pkg/common/attest"
	com_commitstore "github.com/0xrafi/degen-score/pkg/common/commitstore"
	"github.com/0xrafi/degen-score/pkg/common/invalidation"
	"github.com/0xrafi/degen-score/pkg/common/record"
	sw_commitment "github.com/0xrafi/degen-score/pkg/cryptosuite/sw/commitment"
	"github.com/0xrafi/degen-score/pkg/index"
	inv "github.com/0xrafi/degen-score/pkg/invalidation"
	"github.com/0xrafi/degen-score/pkg/vault"
)

func testSecret(t *testing.T) []byte {
	t.Helper()
	secret := make([]byte, 32)
	_, err := rand.Read(secret)
	require.NoError(t, err)
	return secret
}

func testManager(t *testing.T) *RecordManager {
	t.Helper()

	m, err := NewRecordManager(&Config{
		CommitStore:  commitstore.NewInMemoryCommitStore(),
		Invalidation: inv.NewInMemorySet(),
		Index:        index.NewInMemoryIndex(),
		Vault:        vault.NewInMemoryVault(),
		Scheme:       sw_commitment.NewHashScheme(),
		Verifier:     attest.NewOpenVerifier(),
		OwnerSecret:  testSecret(t),
	})
	require.NoError(t, err)
	return m
}

func TestRecordManager_InvalidConfig(t *testing.T) {
	_, err := NewRecordManager(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewRecordManager(&Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewRecordManager(&Config{
		CommitStore:  commitstore.NewInMemoryCommitStore(),
		Invalidation: inv.NewInMemorySet(),
		Index:        index.NewInMemoryIndex(),
		Vault:        vault.NewInMemoryVault(),
		Scheme:       sw_commitment.NewHashScheme(),
		Verifier:     attest.NewOpenVerifier(),
		OwnerSecret:  []byte("short"),
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRecordManager_Lifecycle(t *testing.T) {
	m := testManager(t)
	key := []byte("user-1")

	_, err := m.Read(key)
	assert.ErrorIs(t, err, ErrNoLiveRecord)

	assert.ErrorIs(t, m.Replace(key, record.Payload{Score: 1}), ErrNoLiveRecord)

	assert.NoError(t, m.Initialize(key, record.Payload{Score: 0}))

	payload, err := m.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), payload.Score)

	assert.ErrorIs(t, m.Initialize(key, record.Payload{Score: 0}), ErrAlreadyInitialized)

	assert.NoError(t, m.Replace(key, record.Payload{Score: 104}))
	payload, err = m.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, int64(104), payload.Score)
}

func TestRecordManager_ReplaceKillsPredecessor(t *testing.T) {
	m := testManager(t)
	key := []byte("user-1")

	require.NoError(t, m.Initialize(key, record.Payload{Score: 0}))

	op, err := m.prepareReplace(key)
	require.NoError(t, err)

	assert.NoError(t, m.Replace(key, record.Payload{Score: 104}))

	// the superseded commitment's invalidation tag is now on the ledger
	dead, err := m.inv.Contains(op.baseTag)
	assert.NoError(t, err)
	assert.True(t, dead)
}

// Two replaces racing from the same live commitment: the first commit wins,
// the second observes the duplicate tag and must retry.
func TestRecordManager_ConcurrentReplace_SingleWinner(t *testing.T) {
	m := testManager(t)
	key := []byte("user-1")

	require.NoError(t, m.Initialize(key, record.Payload{Score: 0}))

	op1, err := m.prepareReplace(key)
	require.NoError(t, err)
	op2, err := m.prepareReplace(key)
	require.NoError(t, err)

	assert.NoError(t, op1.commit(record.Payload{Score: 104}))
	assert.ErrorIs(t, op2.commit(record.Payload{Score: 140}), invalidation.ErrDuplicateTag)

	// the winner's payload is the live one
	payload, err := m.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, int64(104), payload.Score)

	// the loser retries against the new state and succeeds
	op3, err := m.prepareReplace(key)
	require.NoError(t, err)
	assert.NoError(t, op3.commit(record.Payload{Score: 140}))

	payload, err = m.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, int64(140), payload.Score)
}

func TestRecordManager_Update_RetriesUnderContention(t *testing.T) {
	m := testManager(t)
	key := []byte("user-1")

	require.NoError(t, m.Initialize(key, record.Payload{Score: 0}))

	const writers = 8
	var errGroup errgroup.Group
	for i := 0; i < writers; i++ {
		delta := int64(i + 1)
		errGroup.Go(func() error {
			_, err := m.Update(key, nil, func(cur record.Payload) (record.Payload, error) {
				return record.Payload{Score: cur.Score + delta}, nil
			})
			return err
		})
	}
	assert.NoError(t, errGroup.Wait())

	// every increment was serialized exactly once
	payload, err := m.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, int64(1+2+3+4+5+6+7+8), payload.Score)
}

// stuckSet always reports a duplicate, as if every attempt loses its race.
type stuckSet struct{}

func (stuckSet) Emit(tag []byte) error             { return invalidation.ErrDuplicateTag }
func (stuckSet) Contains(tag []byte) (bool, error) { return false, nil }

func TestRecordManager_Update_ContentionExceeded(t *testing.T) {
	secret := testSecret(t)
	idx := index.NewInMemoryIndex()
	v := vault.NewInMemoryVault()
	cs := commitstore.NewInMemoryCommitStore()

	m, err := NewRecordManager(&Config{
		CommitStore:  cs,
		Invalidation: inv.NewInMemorySet(),
		Index:        idx,
		Vault:        v,
		Scheme:       sw_commitment.NewHashScheme(),
		Verifier:     attest.NewOpenVerifier(),
		OwnerSecret:  secret,
	})
	require.NoError(t, err)
	require.NoError(t, m.Initialize([]byte("user-1"), record.Payload{Score: 0}))

	// same stores, but every emit loses
	m2, err := NewRecordManager(&Config{
		CommitStore:  cs,
		Invalidation: stuckSet{},
		Index:        idx,
		Vault:        v,
		Scheme:       sw_commitment.NewHashScheme(),
		Verifier:     attest.NewOpenVerifier(),
		OwnerSecret:  secret,
		MaxAttempts:  3,
	})
	require.NoError(t, err)

	_, err = m2.Update([]byte("user-1"), nil, func(cur record.Payload) (record.Payload, error) {
		return record.Payload{Score: cur.Score + 1}, nil
	})
	assert.ErrorIs(t, err, ErrContentionExceeded)
}

func TestRecordManager_KeysDoNotInterfere(t *testing.T) {
	m := testManager(t)
	a, b := []byte("user-a"), []byte("user-b")

	require.NoError(t, m.Initialize(a, record.Payload{Score: 0}))
	require.NoError(t, m.Initialize(b, record.Payload{Score: 0}))

	require.NoError(t, m.Replace(a, record.Payload{Score: 500}))

	payload, err := m.Read(b)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), payload.Score)
}

// A handle without the owner secret derives different slots and cannot even
// locate the record, let alone open it.
func TestRecordManager_ForeignSecretCannotLocate(t *testing.T) {
	cs := commitstore.NewInMemoryCommitStore()
	set := inv.NewInMemorySet()
	idx := index.NewInMemoryIndex()
	v := vault.NewInMemoryVault()

	owner, err := NewRecordManager(&Config{
		CommitStore:  cs,
		Invalidation: set,
		Index:        idx,
		Vault:        v,
		Scheme:       sw_commitment.NewHashScheme(),
		Verifier:     attest.NewOpenVerifier(),
		OwnerSecret:  testSecret(t),
	})
	require.NoError(t, err)

	stranger, err := NewRecordManager(&Config{
		CommitStore:  cs,
		Invalidation: set,
		Index:        idx,
		Vault:        v,
		Scheme:       sw_commitment.NewHashScheme(),
		Verifier:     attest.NewOpenVerifier(),
		OwnerSecret:  testSecret(t),
	})
	require.NoError(t, err)

	key := []byte("user-1")
	require.NoError(t, owner.Initialize(key, record.Payload{Score: 42}))

	_, err = stranger.Read(key)
	assert.ErrorIs(t, err, ErrNoLiveRecord)
}

func TestRecordManager_RejectsForeignOwnerTag(t *testing.T) {
	m := testManager(t)
	key := []byte("user-1")

	require.NoError(t, m.Initialize(key, record.Payload{Score: 0}))

	// forge a well-formed commitment whose payload is bound to someone else
	slot, err := deriveSlot(m.secret, key)
	require.NoError(t, err)

	forged := record.Payload{Score: 999, OwnerTag: deriveOwnerTag(testSecret(t), key)}
	ref, err := m.append(slot, forged)
	require.NoError(t, err)
	require.NoError(t, m.idx.Advance(slotKey(slot), ref))

	_, err = m.Read(key)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestRecordManager_Update_Unauthorized(t *testing.T) {
	secret := testSecret(t)

	verifier := denyVerifier{}
	m, err := NewRecordManager(&Config{
		CommitStore:  commitstore.NewInMemoryCommitStore(),
		Invalidation: inv.NewInMemorySet(),
		Index:        index.NewInMemoryIndex(),
		Vault:        vault.NewInMemoryVault(),
		Scheme:       sw_commitment.NewHashScheme(),
		Verifier:     verifier,
		OwnerSecret:  secret,
	})
	require.NoError(t, err)

	key := []byte("user-1")
	require.NoError(t, m.Initialize(key, record.Payload{Score: 0}))

	_, err = m.Update(key, nil, func(cur record.Payload) (record.Payload, error) {
		return record.Payload{Score: 1}, nil
	})
	assert.ErrorIs(t, err, com_attest.ErrUnauthorized)

	// the rejected update left no trace
	payload, err := m.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), payload.Score)
}

type denyVerifier struct{}

func (denyVerifier) Verify(att com_attest.Attestation, key, payload []byte) error {
	return com_attest.ErrUnauthorized
}

var errLedgerDown = errors.New("commitstore: write failed")

// flakyCommitStore fails the next Append once, as if the ledger dropped the
// write mid-operation.
type flakyCommitStore struct {
	com_commitstore.CommitStore
	fail bool
}

func (s *flakyCommitStore) Append(ref string, cmt *com_commitstore.Commitment) error {
	if s.fail {
		s.fail = false
		return errLedgerDown
	}
	return s.CommitStore.Append(ref, cmt)
}

// A replace whose ledger write fails must leave the old commitment live: the
// invalidation tag is only emitted once the successor is on the ledger.
func TestRecordManager_FailedAppendLeavesRecordLive(t *testing.T) {
	cs := &flakyCommitStore{CommitStore: commitstore.NewInMemoryCommitStore()}

	m, err := NewRecordManager(&Config{
		CommitStore:  cs,
		Invalidation: inv.NewInMemorySet(),
		Index:        index.NewInMemoryIndex(),
		Vault:        vault.NewInMemoryVault(),
		Scheme:       sw_commitment.NewHashScheme(),
		Verifier:     attest.NewOpenVerifier(),
		OwnerSecret:  testSecret(t),
	})
	require.NoError(t, err)

	key := []byte("user-1")
	require.NoError(t, m.Initialize(key, record.Payload{Score: 7}))

	cs.fail = true
	assert.ErrorIs(t, m.Replace(key, record.Payload{Score: 104}), errLedgerDown)

	// the failed replace wrote nothing visible: old payload still live
	payload, err := m.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), payload.Score)

	// and the record is still replaceable
	assert.NoError(t, m.Replace(key, record.Payload{Score: 104}))
	payload, err = m.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, int64(104), payload.Score)
}

func TestRecordManager_HistoryStaysAppendOnly(t *testing.T) {
	m := testManager(t)
	key := []byte("user-1")

	require.NoError(t, m.Initialize(key, record.Payload{Score: 0}))

	op1, err := m.prepareReplace(key)
	require.NoError(t, err)
	require.NoError(t, m.Replace(key, record.Payload{Score: 10}))

	op2, err := m.prepareReplace(key)
	require.NoError(t, err)
	require.NoError(t, m.Replace(key, record.Payload{Score: 20}))

	// superseded commitments are still on the ledger, just dead
	for _, op := range []*replaceOp{op1, op2} {
		ok, err := m.cs.Contains(op.base.ref)
		assert.NoError(t, err)
		assert.True(t, ok)

		dead, err := m.inv.Contains(op.baseTag)
		assert.NoError(t, err)
		assert.True(t, dead)
	}

	live, err := m.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, int64(20), live.Score)
}
