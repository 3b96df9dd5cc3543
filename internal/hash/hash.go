package hash

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strconv"
)

// Sum returns the FNV-1a 64-bit digest of data as lowercase hex.
func Sum(data []byte) string {
	h := fnv.New64a()
	h.Write(data) // nolint:errcheck
	return strconv.FormatUint(h.Sum64(), 16)
}

// JSON encodes v and returns the encoding together with its digest.
func JSON(v any) (data []byte, digest string, err error) {
	data, err = json.Marshal(v)
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize: %w", err)
	}
	return data, Sum(data), nil
}
