package encoding

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// Fingerprint returns a deterministic serialized form of v for equality
// checks. Map keys are sorted, so two maps holding the same entries always
// produce the same bytes regardless of iteration order.
func Fingerprint(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
