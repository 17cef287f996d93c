package apiclient

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// Credential holds the bearer token. The zero value is not usable.
// Formatting, JSON and zap encoding never expose the token.
type Credential struct {
	token string
}

// NewCredential trims the token and rejects empty values and values that
// cannot be sent in a header (line breaks, other control characters).
func NewCredential(token string) (Credential, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Credential{}, configErr("token", "is empty", nil)
	}
	if strings.IndexFunc(token, isControl) >= 0 {
		return Credential{}, configErr("token", "must be a single line without control characters", nil)
	}
	return Credential{token: token}, nil
}

func isControl(r rune) bool { return r < 0x20 || r == 0x7f }

// LoadCredential reads a bearer token from a plain-text file.
func LoadCredential(path string) (Credential, error) {
	if strings.TrimSpace(path) == "" {
		return Credential{}, configErr("token_file", "path is empty", nil)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Credential{}, configErr("token_file", fmt.Sprintf("%q not found", path), err)
		}
		return Credential{}, configErr("token_file", fmt.Sprintf("%q unreadable", path), err)
	}

	cred, err := NewCredential(string(raw))
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.Reason = fmt.Sprintf("in %q %s", path, cfgErr.Reason)
		}
		return Credential{}, err
	}
	return cred, nil
}

// Valid reports whether the credential carries a token.
func (c Credential) Valid() bool { return c.token != "" }

// Preview returns the first ten characters of the token followed by "...".
func (c Credential) Preview() string {
	if len(c.token) <= 10 {
		return c.token[:len(c.token)/2] + "..."
	}
	return c.token[:10] + "..."
}

func (c Credential) authorization() string { return "Bearer " + c.token }

func (c Credential) String() string   { return redacted }
func (c Credential) GoString() string { return redacted }

func (c Credential) MarshalJSON() ([]byte, error) { return []byte(`"` + redacted + `"`), nil }

func (c Credential) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("present", c.Valid())
	return nil
}
