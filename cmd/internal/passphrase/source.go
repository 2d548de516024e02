package passphrase

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Options selects where an operator keystore passphrase comes from. The
// environment variable wins over the file and the terminal prompt is the
// last resort.
type Options struct {
	EnvVar string
	File   string
	// Confirm asks for the passphrase twice when prompting. Set it when the
	// passphrase is about to encrypt a new keystore.
	Confirm bool
}

// Source resolves the passphrase once and caches the outcome.
type Source struct {
	opts Options

	// prompt reads one secret line; tests replace it.
	prompt func(label string) (string, error)

	once  sync.Once
	value string
	err   error
}

func NewSource(opts Options) *Source {
	opts.EnvVar = strings.TrimSpace(opts.EnvVar)
	opts.File = strings.TrimSpace(opts.File)
	return &Source{opts: opts, prompt: terminalPrompt}
}

func (s *Source) Get() (string, error) {
	s.once.Do(func() {
		s.value, s.err = s.resolve()
	})
	return s.value, s.err
}

func (s *Source) resolve() (string, error) {
	if s.opts.EnvVar != "" {
		if value, ok := os.LookupEnv(s.opts.EnvVar); ok {
			if strings.TrimSpace(value) == "" {
				return "", fmt.Errorf("%s is set but empty", s.opts.EnvVar)
			}
			return value, nil
		}
	}
	if s.opts.File != "" {
		raw, err := os.ReadFile(s.opts.File)
		if err != nil {
			return "", fmt.Errorf("read passphrase file: %w", err)
		}
		value := strings.TrimRight(string(raw), "\r\n")
		if strings.TrimSpace(value) == "" {
			return "", fmt.Errorf("passphrase file %s is empty", s.opts.File)
		}
		return value, nil
	}

	value, err := s.prompt("Enter mcashctl keystore passphrase: ")
	if err != nil {
		return "", s.explain(err)
	}
	if strings.TrimSpace(value) == "" {
		return "", errors.New("keystore passphrase cannot be empty")
	}
	if s.opts.Confirm {
		again, err := s.prompt("Repeat passphrase: ")
		if err != nil {
			return "", s.explain(err)
		}
		if again != value {
			return "", errors.New("passphrases do not match")
		}
	}
	return value, nil
}

var errNoTerminal = errors.New("no terminal available")

func (s *Source) explain(err error) error {
	if !errors.Is(err, errNoTerminal) {
		return fmt.Errorf("read passphrase: %w", err)
	}
	if s.opts.EnvVar != "" {
		return fmt.Errorf("keystore passphrase required; set %s, PassphraseFile, or run interactively", s.opts.EnvVar)
	}
	return errors.New("keystore passphrase required and no terminal available")
}

func terminalPrompt(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoTerminal
	}
	fmt.Fprint(os.Stderr, label)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
