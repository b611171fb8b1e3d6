package ws

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	connEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	connEntropyMu sync.Mutex
)

// newConnID mints the connection identity a client keeps for the life
// of its socket. Seats reference these ids; a reconnect gets a new one.
func newConnID() string {
	connEntropyMu.Lock()
	defer connEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), connEntropy).String()
}
