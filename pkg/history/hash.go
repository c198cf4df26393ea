package history

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Fingerprint computes the deterministic deduplication key for an entry.
//
// The digest covers the identity tuple in a fixed order with "\n" as the
// field separator, and renders a nil HistID as the empty string so an absent
// field can never collide with a present one. The exact byte layout matches
// the legacy dbhist producer, so fingerprints computed here deduplicate
// correctly against rows imported from its databases.
//
// This is a dedup key, not a security digest. SHA-256 is wide enough that an
// accidental collision between different entries is not a practical concern,
// and no collision-recovery path exists.
func Fingerprint(e Entry) string {
	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(e.Epoch, 10)))
	h.Write([]byte("\n"))
	h.Write([]byte(strconv.FormatInt(e.PPID, 10)))
	h.Write([]byte("\n"))
	h.Write([]byte(strconv.FormatInt(e.Salt, 10)))
	h.Write([]byte("\n"))
	if e.HistID != nil {
		h.Write([]byte(strconv.FormatInt(*e.HistID, 10)))
	}
	h.Write([]byte("\n"))
	h.Write([]byte(e.Pwd))
	h.Write([]byte("\n"))
	h.Write([]byte(e.Command))
	return hex.EncodeToString(h.Sum(nil))
}
