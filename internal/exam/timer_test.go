package exam

import "testing"

func TestCountdownTick(t *testing.T) {
	c := NewCountdown(3)
	if c.Remaining() != 3 {
		t.Fatalf("remaining = %d, want 3", c.Remaining())
	}

	if c.Tick() {
		t.Fatal("expired after 1 tick")
	}
	if c.Tick() {
		t.Fatal("expired after 2 ticks")
	}
	if !c.Tick() {
		t.Fatal("no expiry on the draining tick")
	}
	if c.Remaining() != 0 {
		t.Fatalf("remaining = %d after expiry", c.Remaining())
	}

	// Expiry fires exactly once; the countdown is stopped afterwards.
	for i := 0; i < 5; i++ {
		if c.Tick() {
			t.Fatal("expiry fired twice")
		}
	}
	if !c.Stopped() {
		t.Fatal("countdown not stopped after expiry")
	}
}

func TestCountdownStop(t *testing.T) {
	c := NewCountdown(10)
	c.Tick()
	c.Stop()

	before := c.Remaining()
	for i := 0; i < 3; i++ {
		if c.Tick() {
			t.Fatal("stopped countdown expired")
		}
	}
	if c.Remaining() != before {
		t.Fatalf("stopped countdown kept draining: %d -> %d", before, c.Remaining())
	}
}

func TestCountdownNegativeClamp(t *testing.T) {
	c := NewCountdown(-5)
	if c.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", c.Remaining())
	}
}
