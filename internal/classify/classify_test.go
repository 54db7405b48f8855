package classify

import (
	"testing"
	"time"
)

var testNow = time.Unix(1700000000, 0)

func TestFallbackEligibility(t *testing.T) {
	eligible := []Kind{KindAuth, KindPermission, KindRateLimit, KindQuota, KindKeyInvalid}
	for _, k := range eligible {
		if !k.FallbackEligible() {
			t.Errorf("%s should be fallback-eligible", k)
		}
	}
	for _, k := range []Kind{KindNotFound, KindUnknown} {
		if k.FallbackEligible() {
			t.Errorf("%s should not be fallback-eligible", k)
		}
	}
}

func TestClassifyTwitter(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawError
		kind Kind
	}{
		{"status 401", &RawError{Status: 401}, KindAuth},
		{"code 401", &RawError{Code: 401}, KindAuth},
		{"window limit", &RawError{Status: 429}, KindRateLimit},
		{"monthly cap", &RawError{Status: 429, Detail: "Usage cap exceeded: Monthly product cap"}, KindRateLimit},
		{"unmatched", &RawError{Status: 500, Message: "oops"}, KindUnknown},
	}

	for _, tt := range tests {
		got := Classify(FamilyTwitter, tt.raw, testNow)
		if got.Kind != tt.kind {
			t.Errorf("%s: got kind %s, want %s", tt.name, got.Kind, tt.kind)
		}
	}
}

func TestClassifyTwitterMonthlyCap(t *testing.T) {
	raw := &RawError{
		Status:         429,
		Detail:         "Monthly product cap reached",
		RateLimitReset: testNow.Add(90 * time.Second),
	}
	got := Classify(FamilyTwitter, raw, testNow)
	if !got.MonthlyCapHit {
		t.Fatal("monthly cap should set MonthlyCapHit")
	}
	if got.RetryAfterSeconds != 0 {
		t.Fatalf("monthly cap should not carry a retry countdown, got %d", got.RetryAfterSeconds)
	}
	if !got.Kind.FallbackEligible() {
		t.Fatal("monthly cap must remain fallback-eligible")
	}
}

func TestClassifyTwitterRetryAfterFromReset(t *testing.T) {
	raw := &RawError{Status: 429, RateLimitReset: testNow.Add(90 * time.Second)}
	got := Classify(FamilyTwitter, raw, testNow)
	if got.RetryAfterSeconds != 90 {
		t.Fatalf("expected 90s retryAfter, got %d", got.RetryAfterSeconds)
	}

	// A reset in the past still reports a minimum wait.
	got = Classify(FamilyTwitter, &RawError{Status: 429, RateLimitReset: testNow.Add(-time.Minute)}, testNow)
	if got.RetryAfterSeconds != 1 {
		t.Fatalf("expected 1s minimum retryAfter, got %d", got.RetryAfterSeconds)
	}

	// Missing reset falls back to a flat wait.
	got = Classify(FamilyTwitter, &RawError{Status: 429}, testNow)
	if got.RetryAfterSeconds != 60 {
		t.Fatalf("expected default 60s retryAfter, got %d", got.RetryAfterSeconds)
	}
}

func TestClassifyYouTube(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawError
		kind Kind
	}{
		{"quota reason outranks 403", &RawError{Status: 403, Reason: "quotaExceeded"}, KindQuota},
		{"key invalid reason", &RawError{Status: 400, Reason: "keyInvalid"}, KindKeyInvalid},
		{"bare 403", &RawError{Status: 403}, KindAuth},
		{"bare 401", &RawError{Status: 401}, KindAuth},
		{"429", &RawError{Status: 429}, KindRateLimit},
		{"unmatched", &RawError{Status: 503, Message: "backend unavailable"}, KindUnknown},
	}

	for _, tt := range tests {
		got := Classify(FamilyYouTube, tt.raw, testNow)
		if got.Kind != tt.kind {
			t.Errorf("%s: got kind %s, want %s", tt.name, got.Kind, tt.kind)
		}
	}
}

func TestClassifyFacebook(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawError
		kind Kind
	}{
		{"401", &RawError{Status: 401}, KindAuth},
		{"400 counts as auth", &RawError{Status: 400}, KindAuth},
		{"429", &RawError{Status: 429}, KindRateLimit},
		{"code 100", &RawError{Code: 100}, KindPermission},
		{"permission phrase", &RawError{Message: "(#200) missing permission pages_read_engagement"}, KindPermission},
		{"unmatched", &RawError{Message: "socket hang up"}, KindUnknown},
	}

	for _, tt := range tests {
		got := Classify(FamilyFacebook, tt.raw, testNow)
		if got.Kind != tt.kind {
			t.Errorf("%s: got kind %s, want %s", tt.name, got.Kind, tt.kind)
		}
	}
}

func TestUnknownCarriesMessage(t *testing.T) {
	got := Classify(FamilyYouTube, &RawError{Status: 500, Message: "internal error"}, testNow)
	if got.Detail != "internal error" {
		t.Fatalf("unknown errors should surface the raw message, got %q", got.Detail)
	}
}
