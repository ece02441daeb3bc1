package vault

// Vault is the owner-private store for commitment opening data, addressed
// by commitment ref. Opening records for superseded commitments stay in the
// vault so the owner can privately reconstruct record history.
type Vault interface {
	Import(ref string, opening []byte) error
	Get(ref string) ([]byte, error)
	Delete(ref string) error
}
