package commitstore

// CommitStoreFactory is a factory interface for creating new CommitStore instances
type CommitStoreFactory interface {
	// Create a new CommitStore instance for the given store configuration
	NewCommitStore(cfg interface{}) (CommitStore, error)
}
