package resilience

import (
	"testing"
	"time"
)

func TestSearchProfileFailsFasterThanEmbedding(t *testing.T) {
	embed := EmbeddingProfile()
	search := SearchProfile()

	if search.RetryMaxAttempts >= embed.RetryMaxAttempts {
		t.Fatalf("search attempts %d should be below embedding attempts %d",
			search.RetryMaxAttempts, embed.RetryMaxAttempts)
	}
	if search.RetryMaxBackoff >= embed.RetryMaxBackoff {
		t.Fatalf("search backoff %v should be below embedding backoff %v",
			search.RetryMaxBackoff, embed.RetryMaxBackoff)
	}
	if search.BreakerOpenTimeout >= embed.BreakerOpenTimeout {
		t.Fatalf("search breaker reopen %v should be below embedding reopen %v",
			search.BreakerOpenTimeout, embed.BreakerOpenTimeout)
	}
	if !embed.BreakerEnabled || !search.BreakerEnabled {
		t.Fatalf("both profiles should keep the breaker armed")
	}
}

func TestWithDefaultsBackfillsZeroValues(t *testing.T) {
	got := Config{}.withDefaults()
	want := DefaultConfig()
	want.BreakerEnabled = false
	want.RetryMaxBackoff = want.RetryInitialBackoff

	if got != want {
		t.Fatalf("withDefaults() = %#v, want %#v", got, want)
	}
}

func TestWithDefaultsClampsBackoffCeiling(t *testing.T) {
	got := Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Second,
		RetryMaxBackoff:     100 * time.Millisecond,
		RetryMultiplier:     2,
	}.withDefaults()

	if got.RetryMaxBackoff != time.Second {
		t.Fatalf("expected max backoff raised to initial backoff, got %v", got.RetryMaxBackoff)
	}
	if got.RetryMaxAttempts != 2 {
		t.Fatalf("populated fields must survive, got %d attempts", got.RetryMaxAttempts)
	}
}
