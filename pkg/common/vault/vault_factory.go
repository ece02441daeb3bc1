package vault

// VaultFactory is a factory interface for creating new Vault instances
type VaultFactory interface {
	// Create a new Vault instance for the given Vault configuration
	NewVault(cfg interface{}) Vault
}
