package lib

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// EmptyBlobHash is the git object id of a zero-length blob.
const EmptyBlobHash = "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"

// GitBlobHash returns the git object id the host will assign to a blob with
// the given content ("blob <len>\x00<content>", SHA-1, lowercase hex).
func GitBlobHash(content []byte) string {
	hasher := sha1.New()
	hasher.Write([]byte("blob " + strconv.Itoa(len(content)) + "\x00"))
	hasher.Write(content)
	return hex.EncodeToString(hasher.Sum(nil))
}
