package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/bearer-api-client/internal/app"
	"github.com/samvad-hq/bearer-api-client/internal/config"
	"github.com/samvad-hq/bearer-api-client/internal/logger"
	"github.com/samvad-hq/bearer-api-client/pkg/apiclient"
	"github.com/samvad-hq/bearer-api-client/pkg/render"
	"github.com/spf13/pflag"
)

const (
	exitFailure   = 1
	exitConfig    = 2
	exitTransport = 3
	exitStatus    = 4
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "apiclient: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps error kinds to process exit codes.
func exitCode(err error) int {
	var (
		cfgErr       *apiclient.ConfigurationError
		transportErr *apiclient.TransportError
		statusErr    *apiclient.HTTPStatusError
	)
	switch {
	case err == nil, errors.Is(err, pflag.ErrHelp):
		return 0
	case errors.As(err, &cfgErr):
		return exitConfig
	case errors.As(err, &transportErr):
		return exitTransport
	case errors.As(err, &statusErr):
		return exitStatus
	default:
		return exitFailure
	}
}

func run(args []string, stdout io.Writer) error {
	var (
		method  string
		path    string
		data    string
		output  string
		headers []string
		query   []string
	)

	flags := pflag.NewFlagSet("apiclient", pflag.ContinueOnError)
	flags.StringVarP(&method, "method", "X", "GET", "HTTP method: GET, POST, PUT or DELETE")
	flags.StringVarP(&path, "path", "p", "", "request path relative to the base URL (omit to only check configuration)")
	flags.StringVarP(&data, "data", "d", "", "request body (JSON unless a non-JSON Content-Type header is given)")
	flags.StringArrayVarP(&headers, "header", "H", nil, "extra request header as Key=Value (repeatable)")
	flags.StringArrayVarP(&query, "query", "q", nil, "query parameter as key=value (repeatable)")
	flags.StringVarP(&output, "output", "o", render.FormatJSON, "output format: json or yaml")
	flags.String("token-file", "", "path to the bearer token file (env TOKEN_FILE)")
	flags.String("base-url", "", "API base URL (env API_BASE_URL)")
	flags.Int("timeout", 0, "request timeout in seconds (env API_TIMEOUT_SECONDS)")
	flags.String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	flags.String("env-file", "", "dotenv file to load (env ENV_FILE)")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: apiclient [flags]\n\nSends one bearer-authenticated request to the configured API.\n\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if rest := flags.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	renderer, err := render.DefaultRegistry().RendererFor(output)
	if err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	runner, err := app.NewRunner(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize client", "error", err.Error())
		return err
	}

	if path == "" {
		return renderer.Render(stdout, runner.Summary())
	}

	call := app.Call{Method: method, Path: path, Data: data}
	if call.Headers, err = config.ParsePairs(headers); err != nil {
		return fmt.Errorf("parse --header: %w", err)
	}
	if call.Query, err = config.ParseQuery(query); err != nil {
		return fmt.Errorf("parse --query: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := runner.Do(ctx, call)
	if err != nil {
		var statusErr *apiclient.HTTPStatusError
		if errors.As(err, &statusErr) {
			_ = renderer.Render(stdout, app.Result{
				Status:  statusErr.StatusCode,
				Headers: statusErr.Header,
				Body:    statusErr.Message,
			})
		}
		return err
	}
	return renderer.Render(stdout, res)
}
