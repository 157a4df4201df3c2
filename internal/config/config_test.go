package config

import "testing"

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":        "postgres://localhost:5432/slip",
		"REDIS_URL":           "redis://localhost:6379/0",
		"DEVICE_TOKEN_SECRET": "0123456789abcdef0123456789abcdef",
		"UPI_PAYEE_ID":        "merchant@bank",
		"PORT":                "",
		"RATE_LIMIT":          "",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(baseEnv())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr() != ":8080" {
		t.Fatalf("addr = %q", cfg.HTTPAddr())
	}
	if cfg.RateLimit != "60-M" {
		t.Fatalf("rate limit = %q", cfg.RateLimit)
	}
	if cfg.ShareMaxRetry != 5 {
		t.Fatalf("share max retry = %d", cfg.ShareMaxRetry)
	}
	if cfg.MetricsNamespace != "slip" {
		t.Fatalf("namespace = %q", cfg.MetricsNamespace)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	env := baseEnv()
	env["DATABASE_URL"] = ""
	if _, err := LoadForTests(env); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}

	env = baseEnv()
	env["UPI_PAYEE_ID"] = ""
	if _, err := LoadForTests(env); err == nil {
		t.Fatal("expected error for missing UPI_PAYEE_ID")
	}
}
