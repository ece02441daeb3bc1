package commitstore

import "github.com/0xrafi/degen-score/pkg/common/commitstore"

type InMemoryCommitStoreFactory struct{}

var _ commitstore.CommitStoreFactory = (*InMemoryCommitStoreFactory)(nil)

// NewCommitStore creates a new CommitStore instance for the given store configuration
func (f *InMemoryCommitStoreFactory) NewCommitStore(cfg interface{}) (commitstore.CommitStore, error) {
	return NewInMemoryCommitStore(), nil
}
