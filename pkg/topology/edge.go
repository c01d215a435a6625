package topology

import (
	"github.com/simeonmiteff/netsim/pkg/ratecalc"
	"github.com/simeonmiteff/netsim/pkg/seqtrack"
)

// EwmaAlpha is the smoothing factor used for latency/jitter EWMAs.
const EwmaAlpha = 0.2

// EdgeState is the live state of a single directed (src, dst, class) edge.
type EdgeState struct {
	Id             EdgeId
	EndpointDomain EndpointDomain

	Packets uint64
	Bytes   uint64

	EwmaLatencyUs  float64
	EwmaJitterUs   float64
	LastLatencyUs  float64
	LatencySamples uint64

	Seq  *seqtrack.Tracker
	Rate *ratecalc.Calculator

	FirstSeenUs int64
	LastSeenUs  int64
}

// NewEdge creates a fresh EdgeState for id, first seen at nowUs.
func NewEdge(id EdgeId, endpointDomain EndpointDomain, nowUs int64) *EdgeState {
	return &EdgeState{
		Id:             id,
		EndpointDomain: endpointDomain,
		Seq:            seqtrack.New(),
		Rate:           ratecalc.New(),
		FirstSeenUs:    nowUs,
		LastSeenUs:     nowUs,
	}
}

// ApplyData applies one Data packet's effect to the edge: counters, rate
// calculator, sequence tracker, and (if sentTsUs is present) the latency
// EWMA, per spec.md §4.4.
//
// sentTsUs is nil when the packet carried no send timestamp. A clock
// regression (sentTsUs after nowUs) is treated as a zero-latency sample and
// does not update the EWMA, per spec.md §7.
func (e *EdgeState) ApplyData(nowUs int64, bytes uint64, seq uint64, sentTsUs *uint64, endpointDomain EndpointDomain) {
	e.EndpointDomain = endpointDomain
	e.Packets++
	e.Bytes += bytes
	e.LastSeenUs = nowUs

	e.Rate.Sample(nowUs, 1, bytes)
	e.Seq.Observe(seq)

	if sentTsUs == nil {
		return
	}
	sent := int64(*sentTsUs)
	if nowUs < sent {
		// Clock regression: treat as a zero sample, skip the EWMA update.
		return
	}
	sample := float64(nowUs - sent)

	if e.LatencySamples == 0 {
		e.EwmaLatencyUs = sample
		e.EwmaJitterUs = 0
	} else {
		jitterSample := sample - e.EwmaLatencyUs
		if jitterSample < 0 {
			jitterSample = -jitterSample
		}
		e.EwmaLatencyUs = EwmaAlpha*sample + (1-EwmaAlpha)*e.EwmaLatencyUs
		e.EwmaJitterUs = EwmaAlpha*jitterSample + (1-EwmaAlpha)*e.EwmaJitterUs
	}
	e.LastLatencyUs = sample
	e.LatencySamples++
}

// LatencyDelta is last_latency_us - ewma_latency_us, the trend indicator
// described in spec.md §4.4.
func (e *EdgeState) LatencyDelta() float64 {
	if e.LatencySamples == 0 {
		return 0
	}
	return e.LastLatencyUs - e.EwmaLatencyUs
}
