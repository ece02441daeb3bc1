package degen

import (
	"errors"

	"github.com/0xrafi/degen-score/pkg/attest"
	"github.com/0xrafi/degen-score/pkg/commitstore"
	com_attest "github.com/0xrafi/degen-score/pkg/common/attest"
	com_record "github.com/0xrafi/degen-score/pkg/common/record"
	sw_commitment "github.com/0xrafi/degen-score/pkg/cryptosuite/sw/commitment"
	"github.com/0xrafi/degen-score/pkg/index"
	"github.com/0xrafi/degen-score/pkg/invalidation"
	"github.com/0xrafi/degen-score/pkg/record"
	"github.com/0xrafi/degen-score/pkg/score"
	"github.com/0xrafi/degen-score/pkg/vault"
)

var ErrInvalidConfig = errors.New("degen: invalid config")

// Config assembles a Service.
type Config struct {
	Records com_record.Records

	// OverflowPolicy decides whether an overflowing score computation is
	// rejected or saturated. The default rejects.
	OverflowPolicy score.Policy
}

// Service is the caller-facing surface of the score record store: one
// confidential, mutable score record per key, updated by replacing
// commitments rather than rewriting state.
type Service struct {
	records com_record.Records
	policy  score.Policy
}

func NewService(cfg *Config) (*Service, error) {
	if cfg == nil || cfg.Records == nil {
		return nil, ErrInvalidConfig
	}
	return &Service{
		records: cfg.Records,
		policy:  cfg.OverflowPolicy,
	}, nil
}

// NewInMemoryService wires a Service over in-memory stores and the hash
// commitment scheme. ownerSecret derives the private per-key slots; the
// verifier gates updates (attest.NewOpenVerifier() for the unguarded
// policy).
func NewInMemoryService(ownerSecret []byte, verifier com_attest.Verifier) (*Service, error) {
	if verifier == nil {
		verifier = attest.NewOpenVerifier()
	}

	csf := &commitstore.InMemoryCommitStoreFactory{}
	cs, err := csf.NewCommitStore(nil)
	if err != nil {
		return nil, err
	}
	vf := vault.InMemoryVaultFactory{}

	records, err := record.NewRecordManager(&record.Config{
		CommitStore:  cs,
		Invalidation: invalidation.NewInMemorySet(),
		Index:        index.NewInMemoryIndex(),
		Vault:        vf.NewVault(nil),
		Scheme:       sw_commitment.NewHashScheme(),
		Verifier:     verifier,
		OwnerSecret:  ownerSecret,
	})
	if err != nil {
		return nil, err
	}

	return NewService(&Config{Records: records})
}

// Initialize creates key's record with the baseline score. Fails with
// record.ErrAlreadyInitialized on a second call for the same key.
func (s *Service) Initialize(key []byte) error {
	return s.records.Initialize(key, com_record.Payload{Score: score.Baseline})
}

// Update recomputes key's score from the six activity inputs and replaces
// the record, gated by the attestation. Returns the new score.
func (s *Service) Update(key []byte, in score.Inputs, att com_attest.Attestation) (int64, error) {
	payload, err := s.records.Update(key, att, func(com_record.Payload) (com_record.Payload, error) {
		newScore, err := score.ComputeWithPolicy(in, s.policy)
		if err != nil {
			return com_record.Payload{}, err
		}
		return com_record.Payload{Score: newScore}, nil
	})
	if err != nil {
		return 0, err
	}
	return payload.Score, nil
}

// GetScore returns key's current score without mutating anything.
func (s *Service) GetScore(key []byte) (int64, error) {
	payload, err := s.records.Read(key)
	if err != nil {
		return 0, err
	}
	return payload.Score, nil
}
