// Package setup creates the local configuration files the client reads.
package setup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvFile          = ".env"
	EnvTemplate      = ".env.example"
	TokenFile        = "token.txt"
	TokenTemplate    = "token.txt.example"
	tokenPlaceholder = "your_bearer_token_here"
)

const defaultEnvTemplate = `# Base URL every request path is appended to.
API_BASE_URL=https://api.example.com

# Optional settings.
# TOKEN_FILE=token.txt
# API_TIMEOUT_SECONDS=30
# API_DEFAULT_HEADERS=X-Client=bearer-api-client
# LOG_LEVEL=info
`

const defaultTokenTemplate = tokenPlaceholder + "\n"

// Options controls where files are written.
type Options struct {
	Dir   string
	Force bool
}

// Report lists what Run did and what still needs attention.
type Report struct {
	Created  []string
	Skipped  []string
	Warnings []string
}

type target struct {
	name     string
	template string
	fallback string
	mode     fs.FileMode
}

// Run creates .env and token.txt from their .example templates (or the
// built-in defaults) without overwriting existing files unless Force is set.
func Run(opts Options) (*Report, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	targets := []target{
		{name: EnvFile, template: EnvTemplate, fallback: defaultEnvTemplate, mode: 0o644},
		{name: TokenFile, template: TokenTemplate, fallback: defaultTokenTemplate, mode: 0o600},
	}

	report := &Report{}
	for _, t := range targets {
		created, err := createFromTemplate(dir, t, opts.Force)
		if err != nil {
			return report, err
		}
		if created {
			report.Created = append(report.Created, t.name)
		} else {
			report.Skipped = append(report.Skipped, t.name)
		}
	}

	warnings, err := check(dir)
	if err != nil {
		return report, err
	}
	report.Warnings = warnings
	return report, nil
}

func createFromTemplate(dir string, t target, force bool) (bool, error) {
	dst := filepath.Join(dir, t.name)
	if _, err := os.Stat(dst); err == nil && !force {
		return false, nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", dst, err)
	}

	content, err := os.ReadFile(filepath.Join(dir, t.template))
	if errors.Is(err, fs.ErrNotExist) {
		content = []byte(t.fallback)
	} else if err != nil {
		return false, fmt.Errorf("read template %s: %w", t.template, err)
	}

	if err := os.WriteFile(dst, content, t.mode); err != nil {
		return false, fmt.Errorf("write %s: %w", dst, err)
	}
	return true, nil
}

// check flags values that still look like template placeholders.
func check(dir string) ([]string, error) {
	var warnings []string

	env, err := godotenv.Read(filepath.Join(dir, EnvFile))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", EnvFile, err)
	}
	base := strings.TrimSpace(env["API_BASE_URL"])
	switch {
	case base == "":
		warnings = append(warnings, "API_BASE_URL is not set in "+EnvFile)
	case strings.Contains(base, "example.com"):
		warnings = append(warnings, "API_BASE_URL in "+EnvFile+" still points at "+base)
	}

	token, err := os.ReadFile(filepath.Join(dir, TokenFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", TokenFile, err)
	}
	switch t := strings.TrimSpace(string(token)); {
	case t == "":
		warnings = append(warnings, TokenFile+" is empty")
	case t == tokenPlaceholder:
		warnings = append(warnings, TokenFile+" still holds the placeholder token")
	}
	return warnings, nil
}
