// Package changedetect classifies incoming node writes against previously
// seen content digests, so re-sourcing unchanged content degrades to a
// cheap liveness touch instead of a full create.
package changedetect

import "sync"

// Outcome classifies one incoming write.
type Outcome int

const (
	// New means no digest has been seen for the node id.
	New Outcome = iota
	// Changed means the stored digest differs from the incoming one.
	Changed
	// Unchanged means the digests match exactly.
	Unchanged
)

func (o Outcome) String() string {
	switch o {
	case New:
		return "new"
	case Changed:
		return "changed"
	case Unchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// DigestSource looks up the digest currently stored for a node id.
type DigestSource interface {
	LookupDigest(id string) (string, bool)
}

// Classifier compares incoming digests against the live graph first and
// then against digests carried over from an earlier build.
type Classifier struct {
	live DigestSource

	mu   sync.RWMutex
	prev map[string]string
}

// NewClassifier returns a classifier backed by the live digest source.
func NewClassifier(live DigestSource) *Classifier {
	return &Classifier{live: live, prev: make(map[string]string)}
}

// Seed loads digests from a previous build so a re-submission can be
// recognized as carrying known content before the node lands in the live
// graph. Seeded matches classify as Unchanged; whether that may shortcut
// to a liveness touch is the caller's call, since the node itself is not
// restored with its digest.
func (c *Classifier) Seed(digests map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, d := range digests {
		c.prev[id] = d
	}
}

// Classify compares the incoming digest for id against the stored one.
// Digests are opaque tokens; comparison is exact string match.
func (c *Classifier) Classify(id, incoming string) Outcome {
	stored, ok := c.live.LookupDigest(id)
	if !ok {
		c.mu.RLock()
		stored, ok = c.prev[id]
		c.mu.RUnlock()
	}
	switch {
	case !ok:
		return New
	case stored == incoming:
		return Unchanged
	default:
		return Changed
	}
}

// Forget drops any carried-over digest for id. Called when a node is
// deleted so a later re-creation classifies as New.
func (c *Classifier) Forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.prev, id)
}
