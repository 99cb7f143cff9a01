// Package credentials resolves the upstream API key: environment variable
// first, then the on-disk store, then an interactive prompt whose answer is
// written back for the next invocation.
package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar overrides the store when set.
const EnvVar = "WEATHER_API_KEY"

// keyName is the fixed lookup key inside the store file.
const keyName = "weather-api-key"

// storeFile is the store's file name inside the state directory.
const storeFile = "credentials.yaml"

// ErrMissing is the terminal failure for an absent, cancelled, or empty
// credential.
var ErrMissing = errors.New("credential missing")

// PromptFunc collects a credential interactively. ok=false means the prompt
// was dismissed.
type PromptFunc func() (value string, ok bool)

// Store reads and writes the credential file under a state directory.
type Store struct {
	dir    string
	prompt PromptFunc
}

// NewStore creates a Store. prompt may be nil for non-interactive use.
func NewStore(dir string, prompt PromptFunc) *Store {
	return &Store{dir: dir, prompt: prompt}
}

// StdinPrompt reads one line from stdin, prompting on stderr so piped stdout
// stays clean for the render target.
func StdinPrompt() PromptFunc {
	return func() (string, bool) {
		fmt.Fprint(os.Stderr, "Weather API key: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

// APIKey resolves the credential. A key collected from the prompt is
// persisted; a persist failure does not fail the resolution.
func (s *Store) APIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvVar)); key != "" {
		return key, nil
	}
	if key := s.readFile(); key != "" {
		return key, nil
	}
	if s.prompt == nil {
		return "", fmt.Errorf("%w: set %s or add %s to %s", ErrMissing, EnvVar, keyName, storeFile)
	}
	key, ok := s.prompt()
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", fmt.Errorf("%w: prompt dismissed", ErrMissing)
	}
	_ = s.writeFile(key)
	return key, nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, storeFile)
}

func (s *Store) readFile() string {
	raw, err := os.ReadFile(s.path())
	if err != nil {
		return ""
	}
	var entries map[string]string
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return ""
	}
	return strings.TrimSpace(entries[keyName])
}

func (s *Store) writeFile(key string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	raw, err := yaml.Marshal(map[string]string{keyName: key})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), raw, 0o600)
}
