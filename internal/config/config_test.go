package config

import "testing"

func TestRateLimitMax(t *testing.T) {
	t.Setenv("ACCESSLENS_RATE_LIMIT", "")
	if got := RateLimitMax(); got != 10 {
		t.Fatalf("expected default 10, got %d", got)
	}

	t.Setenv("ACCESSLENS_RATE_LIMIT", "25")
	if got := RateLimitMax(); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}

	t.Setenv("ACCESSLENS_RATE_LIMIT", "0")
	if got := RateLimitMax(); got != 10 {
		t.Fatalf("expected default 10 for 0, got %d", got)
	}

	t.Setenv("ACCESSLENS_RATE_LIMIT", "nope")
	if got := RateLimitMax(); got != 10 {
		t.Fatalf("expected default 10 for invalid, got %d", got)
	}
}

func TestAuditsMax(t *testing.T) {
	t.Setenv("ACCESSLENS_AUDITS_MAX", "")
	if got := AuditsMax(); got != 200 {
		t.Fatalf("expected default 200, got %d", got)
	}

	// 0 disables pruning and is a valid setting.
	t.Setenv("ACCESSLENS_AUDITS_MAX", "0")
	if got := AuditsMax(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}

	t.Setenv("ACCESSLENS_AUDITS_MAX", "-3")
	if got := AuditsMax(); got != 200 {
		t.Fatalf("expected default 200 for negative, got %d", got)
	}
}

func TestAuditsDirDefault(t *testing.T) {
	t.Setenv("ACCESSLENS_AUDITS_DIR", "")
	if got := AuditsDir(); got != "data/audits" {
		t.Fatalf("expected data/audits, got %s", got)
	}

	t.Setenv("ACCESSLENS_AUDITS_DIR", "/tmp/audits")
	if got := AuditsDir(); got != "/tmp/audits" {
		t.Fatalf("expected /tmp/audits, got %s", got)
	}
}
