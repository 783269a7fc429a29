package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetters(t *testing.T) {
	t.Setenv("VERBATIM_INT", "7")
	t.Setenv("VERBATIM_BAD_INT", "seven")
	t.Setenv("VERBATIM_UINT", "1000003")
	t.Setenv("VERBATIM_FLOAT", "2.5")
	t.Setenv("VERBATIM_BOOL", "true")

	if got := GetEnvInt("VERBATIM_INT", 1); got != 7 {
		t.Fatalf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("VERBATIM_BAD_INT", 1); got != 1 {
		t.Fatalf("GetEnvInt fallback = %d", got)
	}
	if got := GetEnvUint("VERBATIM_UINT", 1); got != 1000003 {
		t.Fatalf("GetEnvUint = %d", got)
	}
	if got := GetEnvFloat("VERBATIM_FLOAT", 0); got != 2.5 {
		t.Fatalf("GetEnvFloat = %v", got)
	}
	if !GetEnvBool("VERBATIM_BOOL", false) {
		t.Fatal("GetEnvBool = false")
	}
	if got := GetEnv("VERBATIM_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv = %q", got)
	}
}

func TestLoadEnvKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("VERBATIM_FROM_FILE=file\nVERBATIM_PRESET=file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VERBATIM_PRESET", "process")
	t.Cleanup(func() { os.Unsetenv("VERBATIM_FROM_FILE") })

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv("VERBATIM_FROM_FILE"); got != "file" {
		t.Fatalf("VERBATIM_FROM_FILE = %q", got)
	}
	if got := os.Getenv("VERBATIM_PRESET"); got != "process" {
		t.Fatalf("VERBATIM_PRESET = %q", got)
	}
}
