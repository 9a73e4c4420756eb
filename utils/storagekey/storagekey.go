package storagekey

import (
	"fmt"
	"math/rand"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefix is the object-store directory all image payloads live under.
const Prefix = "image"

var (
	entropyOnce sync.Once
	entropy     *ulid.MonotonicEntropy
	entropyMu   sync.Mutex
)

func newEntropy() *ulid.MonotonicEntropy {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = ulid.Monotonic(rand.New(source), 0)
	})
	return entropy
}

func newSuffix() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), newEntropy())
	return strings.ToLower(id.String())
}

// Generate derives a unique object-store key for an uploaded file. The
// original file name stem and extension are kept so that operators browsing
// the bucket can still recognize objects; a ULID suffix guarantees that two
// uploads sharing a file name never collide. An empty file name yields a
// fully random key.
func Generate(fileName string) string {
	if fileName == "" {
		return path.Join(Prefix, newSuffix())
	}

	ext := path.Ext(fileName)
	stem := strings.TrimSuffix(path.Base(fileName), ext)

	return path.Join(Prefix, fmt.Sprintf("%s-%s%s", stem, newSuffix(), ext))
}
