package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestAPIKey_EnvOverride verifies the environment variable wins over the
// store file.
func TestAPIKey_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "credentials.yaml"), []byte("weather-api-key: from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvVar, "from-env")

	key, err := NewStore(dir, nil).APIKey()
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if key != "from-env" {
		t.Errorf("APIKey() = %q, want from-env", key)
	}
}

// TestAPIKey_FromFile verifies the store file is read when the env var is
// unset.
func TestAPIKey_FromFile(t *testing.T) {
	t.Setenv(EnvVar, "")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "credentials.yaml"), []byte("weather-api-key: stored-key\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	key, err := NewStore(dir, nil).APIKey()
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if key != "stored-key" {
		t.Errorf("APIKey() = %q, want stored-key", key)
	}
}

// TestAPIKey_PromptAndWriteBack verifies a prompted key is persisted for the
// next invocation.
func TestAPIKey_PromptAndWriteBack(t *testing.T) {
	t.Setenv(EnvVar, "")
	dir := t.TempDir()
	prompted := 0
	prompt := func() (string, bool) {
		prompted++
		return "prompted-key", true
	}

	s := NewStore(dir, prompt)
	key, err := s.APIKey()
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if key != "prompted-key" || prompted != 1 {
		t.Errorf("APIKey() = %q, prompts = %d", key, prompted)
	}

	// Second resolution must come from the store, not the prompt.
	key, err = s.APIKey()
	if err != nil {
		t.Fatalf("APIKey() second call error = %v", err)
	}
	if key != "prompted-key" || prompted != 1 {
		t.Errorf("second APIKey() = %q, prompts = %d; want store hit", key, prompted)
	}
}

// TestAPIKey_Missing verifies the terminal failure cases.
func TestAPIKey_Missing(t *testing.T) {
	t.Setenv(EnvVar, "")
	dir := t.TempDir()

	if _, err := NewStore(dir, nil).APIKey(); !errors.Is(err, ErrMissing) {
		t.Errorf("APIKey() without prompt = %v, want ErrMissing", err)
	}

	dismissed := func() (string, bool) { return "", false }
	if _, err := NewStore(dir, dismissed).APIKey(); !errors.Is(err, ErrMissing) {
		t.Errorf("APIKey() dismissed prompt = %v, want ErrMissing", err)
	}

	empty := func() (string, bool) { return "   ", true }
	if _, err := NewStore(dir, empty).APIKey(); !errors.Is(err, ErrMissing) {
		t.Errorf("APIKey() empty prompt = %v, want ErrMissing", err)
	}
}

// TestAPIKey_CorruptStore verifies an unparsable store file falls through to
// the prompt instead of failing.
func TestAPIKey_CorruptStore(t *testing.T) {
	t.Setenv(EnvVar, "")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "credentials.yaml"), []byte("\tnot: [valid"), 0o600); err != nil {
		t.Fatal(err)
	}

	key, err := NewStore(dir, func() (string, bool) { return "fresh", true }).APIKey()
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if key != "fresh" {
		t.Errorf("APIKey() = %q, want fresh", key)
	}
}
