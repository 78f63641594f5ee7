package badger

// All launcher state lives under one prefix so Clear can drop it in one call
// without touching badger's own bookkeeping keys.
const keyPrefix = "wf:"

// makeKey namespaces a store key.
func makeKey(key string) []byte {
	buf := make([]byte, len(keyPrefix)+len(key))
	offset := copy(buf, keyPrefix)
	copy(buf[offset:], key)
	return buf
}
