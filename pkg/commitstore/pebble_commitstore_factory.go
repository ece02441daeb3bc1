package commitstore

import (
	"errors"

	"github.com/0xrafi/degen-score/pkg/common/commitstore"
)

var ErrInvalidStoreConfig = errors.New("commitstore: config must be the database path")

type PebbleCommitStoreFactory struct{}

var _ commitstore.CommitStoreFactory = (*PebbleCommitStoreFactory)(nil)

// NewCommitStore creates a new CommitStore instance for the given store
// configuration; cfg is the database directory path.
func (f *PebbleCommitStoreFactory) NewCommitStore(cfg interface{}) (commitstore.CommitStore, error) {
	path, ok := cfg.(string)
	if !ok {
		return nil, ErrInvalidStoreConfig
	}
	return NewPebbleCommitStore(path)
}
