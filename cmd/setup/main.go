package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samvad-hq/bearer-api-client/internal/setup"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var opts setup.Options

	flags := pflag.NewFlagSet("setup", pflag.ContinueOnError)
	flags.StringVar(&opts.Dir, "dir", ".", "directory to write .env and token.txt into")
	flags.BoolVar(&opts.Force, "force", false, "overwrite existing files")
	if err := flags.Parse(args); err != nil {
		return err
	}

	fmt.Fprintln(out, "Setting up API client configuration")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	report, err := setup.Run(opts)
	if err != nil {
		return err
	}

	if len(report.Created) > 0 {
		fmt.Fprintf(out, "Created configuration files: %s\n", strings.Join(report.Created, ", "))
	}
	if len(report.Skipped) > 0 {
		fmt.Fprintf(out, "Kept existing files: %s\n", strings.Join(report.Skipped, ", "))
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "1. Edit '%s' with your actual bearer token\n", setup.TokenFile)
	fmt.Fprintf(out, "2. Edit '%s' with your API base URL\n", setup.EnvFile)
	fmt.Fprintln(out, "3. Build the client: go build ./cmd/apiclient")
	fmt.Fprintln(out, "4. Check the setup: ./apiclient, then send a request: ./apiclient --path /api/users")
	return nil
}
