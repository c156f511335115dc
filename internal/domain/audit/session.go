package audit

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	sessionPrefix  = "VDC-"
	sessionIDLen   = 9
	sessionCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// SessionContext identifies one session. ID never changes; Hash follows the evidence.
type SessionContext struct {
	ID        string    `json:"id"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"created_at"`
}

// randomUUIDBytes skips u[6] (version) and u[8] (variant): those bytes have
// fixed bits in a v4 UUID.
var randomUUIDBytes = [sessionIDLen]int{0, 1, 2, 3, 4, 5, 9, 10, 11}

// NewSessionID returns "VDC-" followed by 9 characters of [0-9A-Z].
func NewSessionID() string {
	u := uuid.New()
	var b strings.Builder
	b.Grow(len(sessionPrefix) + sessionIDLen)
	b.WriteString(sessionPrefix)
	for _, i := range randomUUIDBytes {
		b.WriteByte(sessionCharset[int(u[i])%len(sessionCharset)])
	}
	return b.String()
}

// ValidSessionID reports whether id has the shape produced by NewSessionID.
func ValidSessionID(id string) bool {
	if len(id) != len(sessionPrefix)+sessionIDLen || !strings.HasPrefix(id, sessionPrefix) {
		return false
	}
	for _, r := range id[len(sessionPrefix):] {
		if !strings.ContainsRune(sessionCharset, r) {
			return false
		}
	}
	return true
}

// DisplayHash derives the short token shown next to the session id.
// FNV-1a over the id and the evidence listing: a display artifact only, it
// carries no integrity guarantee. Names are length-prefixed so no two
// listings serialize alike.
func DisplayHash(sessionID string, snap EvidenceSnapshot) string {
	h := fnv.New64a()
	h.Write([]byte(sessionID))
	for _, c := range Categories() {
		fs := snap[c]
		fmt.Fprintf(h, "|%s#%d", c, len(fs))
		for _, f := range fs {
			fmt.Fprintf(h, "|%d:%s:%d", len(f.Name), f.Name, f.Size)
		}
	}
	return strings.ToUpper(fmt.Sprintf("%016x", h.Sum64()))
}
