package sexpr

import "golang.org/x/crypto/blake2b"

// Fingerprint returns a keyed BLAKE2b digest of tree's raw tagged
// bytes, for log/diagnostic correlation ("these two trees are the
// same value") without ever printing a sensitive atom's contents —
// the same keyed-fingerprint idiom the teacher's secret handle type
// uses to let two opaque values be compared for equality in logs.
// key may be nil for an unkeyed (but still collision-resistant) hash.
func Fingerprint(tree *Tree, key []byte) ([]byte, error) {
	h, err := blake2b.New256(key)
	if err != nil {
		return nil, err
	}
	if tree.Len() > 0 {
		h.Write(tree.buf)
	}
	return h.Sum(nil), nil
}
