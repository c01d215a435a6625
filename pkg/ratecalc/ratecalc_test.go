package ratecalc

import "testing"

func TestCalculator_NoTraffic(t *testing.T) {
	c := New()
	pps, bps := c.Rate(10_000_000)
	if pps != 0 || bps != 0 {
		t.Fatalf("expected zero rate on empty calculator, got pps=%v bps=%v", pps, bps)
	}
}

func TestCalculator_SingleSample(t *testing.T) {
	c := New()
	now := int64(1_000_000_000) // 1000.000000s
	c.Sample(now, 1, 100)

	pps, bps := c.Rate(now)
	if pps != 1.0/WindowSecs {
		t.Fatalf("pps = %v, want %v", pps, 1.0/WindowSecs)
	}
	if bps != 100.0/WindowSecs {
		t.Fatalf("bps = %v, want %v", bps, 100.0/WindowSecs)
	}
}

func TestCalculator_AccumulatesWithinSecond(t *testing.T) {
	c := New()
	base := int64(5_000_000)
	c.Sample(base, 1, 50)
	c.Sample(base+900_000, 2, 60) // same second bucket
	pps, bps := c.Rate(base + 900_000)
	wantPackets := 3.0
	wantBytes := 110.0
	if pps != wantPackets/WindowSecs {
		t.Fatalf("pps = %v, want %v", pps, wantPackets/WindowSecs)
	}
	if bps != wantBytes/WindowSecs {
		t.Fatalf("bps = %v, want %v", bps, wantBytes/WindowSecs)
	}
}

func TestCalculator_OldBucketsExpire(t *testing.T) {
	c := New()
	base := int64(0)
	c.Sample(base, 1, 1000)

	// 6 seconds later, the sample should have aged out of the 5s window.
	pps, bps := c.Rate(base + 6_000_000)
	if pps != 0 || bps != 0 {
		t.Fatalf("expected aged-out sample to contribute zero, got pps=%v bps=%v", pps, bps)
	}
}

func TestCalculator_BucketReuseAcrossWrap(t *testing.T) {
	c := New()
	// Seconds 0 and 5 land on the same bucket index (mod 5); the bucket must
	// reset rather than accumulate stale packets from second 0.
	c.Sample(0, 1, 10)
	c.Sample(5_000_000, 1, 10)

	pps, _ := c.Rate(5_000_000)
	if pps != 1.0/WindowSecs {
		t.Fatalf("stale bucket contents leaked into rate: pps = %v, want %v", pps, 1.0/WindowSecs)
	}
}

func TestCalculator_SlidingWindowDropsOldest(t *testing.T) {
	c := New()
	// One packet per second for 5 seconds: 0,1,2,3,4.
	for s := int64(0); s < 5; s++ {
		c.Sample(s*1_000_000, 1, 10)
	}
	pps, _ := c.Rate(4_000_000)
	if pps != 5.0/WindowSecs {
		t.Fatalf("pps = %v, want %v", pps, 5.0/WindowSecs)
	}

	// Advance to second 5: second 0's bucket (index 0) is reused for second 5
	// and second 0 ages out of the window.
	c.Sample(5_000_000, 1, 10)
	pps, _ = c.Rate(5_000_000)
	if pps != 5.0/WindowSecs {
		t.Fatalf("pps after slide = %v, want %v", pps, 5.0/WindowSecs)
	}
}
