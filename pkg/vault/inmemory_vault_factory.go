package vault

import "github.com/0xrafi/degen-score/pkg/common/vault"

type InMemoryVaultFactory struct{}

var _ vault.VaultFactory = InMemoryVaultFactory{}

// NewVault creates a new Vault instance for the given Vault configuration
func (f InMemoryVaultFactory) NewVault(cfg interface{}) vault.Vault {
	return NewInMemoryVault()
}
