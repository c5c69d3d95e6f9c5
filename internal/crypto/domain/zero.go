package domain

// Zero wipes a buffer that held key material or plaintext. Nil and empty
// slices are no-ops.
func Zero(b []byte) {
	clear(b)
}
