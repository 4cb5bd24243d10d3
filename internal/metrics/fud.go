package metrics

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// FudScore returns the risk placeholder for a token, an integer in
// [0, 5]. The score is a deterministic function of (address, seed) so
// it stays stable for every entity within one batch render; passing the
// batch's seed recomputes fresh scores each refresh.
//
// TODO: replace with a holder-concentration heuristic; only the
// contract shape (stable int in [0,5] per batch) is fixed.
func FudScore(address string, seed int64) int {
	data := fmt.Sprintf("%s|%d", address, seed)
	hash := sha256.Sum256([]byte(data))
	return int(binary.BigEndian.Uint64(hash[:8]) % 6)
}
