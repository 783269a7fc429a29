package config

import (
	"strings"
	"testing"

	"github.com/RishiKendai/verbatim/internal/plagiarism"
	"github.com/kr/pretty"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := plagiarism.DefaultOptions()
	if diff := pretty.Diff(cfg.DetectorOptions(), want); len(diff) > 0 {
		t.Fatalf("detector options differ from defaults: %v", diff)
	}
	if err := cfg.ValidateEngine(); err != nil {
		t.Fatalf("ValidateEngine: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MIN_WINDOW_WORDS", "6")
	t.Setenv("WORKER_COUNT", "2")
	t.Setenv("HASH_MODE", "xxhash")
	t.Setenv("NORMALIZE_UNICODE", "1")

	cfg, _ := Load()
	opts := cfg.DetectorOptions()
	if opts.MinWindowWords != 6 || opts.WorkerCount != 2 || opts.HashMode != plagiarism.HashXX || !opts.NormalizeUnicode {
		t.Fatalf("unexpected options: %# v", pretty.Formatter(opts))
	}
}

func TestValidateEngineRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"window":  func(c *Config) { c.MinWindowWords = 0 },
		"workers": func(c *Config) { c.WorkerCount = -1 },
		"modulus": func(c *Config) { c.HashModulus = 0 },
		"mode":    func(c *Config) { c.HashMode = "md5" },
	}
	for name, mutate := range cases {
		cfg, _ := Load()
		mutate(cfg)
		if err := cfg.ValidateEngine(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestValidateRequiresServerSettings(t *testing.T) {
	cfg, _ := Load()
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "MONGO_URI") {
		t.Fatalf("expected MONGO_URI error, got %v", err)
	}

	cfg.MongoURI = "mongodb://localhost:27017"
	cfg.MongoDBName = "verbatim"
	cfg.JWTSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
