package commitment

// Digest is the public, binding and hiding digest of a committed payload.
type Digest []byte

// Opening is the private data required to open a digest. Whoever holds it
// can prove what the digest commits to, and derive its invalidation tag.
type Opening []byte

// Scheme binds a (slot, payload) pair under fresh randomness.
type Scheme interface {
	// Commit returns a digest committing to (slot, payload) and the opening
	// data needed to verify or supersede it later.
	Commit(slot, payload []byte) (Digest, Opening, error)

	// Verify reports whether digest is a commitment to (slot, payload)
	// under the given opening.
	Verify(digest Digest, opening Opening, slot, payload []byte) bool
}
