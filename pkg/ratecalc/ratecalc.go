// Package ratecalc implements the sliding-window packet and byte rate
// calculator used by a single edge: a 5-second horizon divided into 1-second
// buckets, queried as packets/bytes-per-second averaged over the window.
package ratecalc

const (
	// WindowSecs is the sliding-window horizon in seconds.
	WindowSecs = 5
	// BucketSecs is the width of a single bucket in seconds.
	BucketSecs = 1

	numBuckets = WindowSecs / BucketSecs
)

type bucket struct {
	second  int64 // the floor(now_us/1e6) this bucket was last reset for
	packets uint64
	bytes   uint64
	used    bool // distinguishes "second 0, never written" from a real sample
}

// Calculator is a per-edge sliding-window rate tracker. It holds no locks;
// callers serialize access the same way they serialize everything else in
// the single-threaded dispatcher loop.
type Calculator struct {
	buckets [numBuckets]bucket
}

// New returns a Calculator with an empty window.
func New() *Calculator {
	return &Calculator{}
}

// Sample records packets/bytes observed at nowUs (microseconds).
func (c *Calculator) Sample(nowUs int64, packets, bytes uint64) {
	second := nowUs / 1_000_000
	idx := second % numBuckets
	b := &c.buckets[idx]
	if !b.used || b.second != second {
		b.second = second
		b.packets = 0
		b.bytes = 0
		b.used = true
	}
	b.packets += packets
	b.bytes += bytes
}

// Rate returns (pps, bps) averaged over the trailing WindowSecs seconds as
// of nowUs. Buckets older than the window contribute zero.
func (c *Calculator) Rate(nowUs int64) (pps, bps float64) {
	second := nowUs / 1_000_000
	var packets, bytes uint64
	for i := range c.buckets {
		b := &c.buckets[i]
		if !b.used {
			continue
		}
		if second-b.second < WindowSecs {
			packets += b.packets
			bytes += b.bytes
		}
	}
	return float64(packets) / WindowSecs, float64(bytes) / WindowSecs
}
