package params

const (
	// SecParam is the fundamental security parameter in bits.
	SecParam = 256
	// SecBytes is the fundamental security parameter in bytes.
	SecBytes = SecParam / 8
)
