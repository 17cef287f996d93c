package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/samvad-hq/bearer-api-client/internal/config"
	"github.com/samvad-hq/bearer-api-client/internal/logger"
	"github.com/samvad-hq/bearer-api-client/pkg/apiclient"
)

// Runner owns a configured API client and performs one-off calls for the CLI.
type Runner struct {
	cfg    *config.Config
	cred   apiclient.Credential
	client *apiclient.Client
}

// NewRunner loads the credential and builds the client from config.
func NewRunner(cfg *config.Config, log logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = apiclient.Discard
	}
	cred, err := apiclient.LoadCredential(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}

	client, err := apiclient.NewClient(cfg.ClientConfig(), cred, apiclient.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("build client: %w", err)
	}

	log.InfoObj("api client ready", "client", map[string]any{
		"base_url":   client.BaseURL(),
		"token_file": cfg.TokenFile,
		"timeout":    cfg.Timeout.String(),
	})

	return &Runner{cfg: cfg, cred: cred, client: client}, nil
}

// Summary describes the loaded setup without exposing the token.
type Summary struct {
	BaseURL      string `json:"base_url" yaml:"base_url"`
	TokenFile    string `json:"token_file" yaml:"token_file"`
	TokenPreview string `json:"token_preview" yaml:"token_preview"`
}

// Summary reports what the runner was built from.
func (r *Runner) Summary() Summary {
	return Summary{
		BaseURL:      r.client.BaseURL(),
		TokenFile:    r.cfg.TokenFile,
		TokenPreview: r.cred.Preview(),
	}
}

// Call is one CLI-driven request. Data, when set, must be a JSON document
// unless a non-JSON Content-Type header is supplied.
type Call struct {
	Method  string
	Path    string
	Data    string
	Headers map[string]string
	Query   url.Values
}

// Result is the printable outcome of a successful call.
type Result struct {
	Status    int               `json:"status" yaml:"status"`
	RequestID string            `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      any               `json:"body" yaml:"body"`
}

// Do performs the call and converts the response for rendering.
func (r *Runner) Do(ctx context.Context, call Call) (*Result, error) {
	method, err := apiclient.ParseMethod(call.Method)
	if err != nil {
		return nil, err
	}

	req := apiclient.Request{
		Method:  method,
		Path:    call.Path,
		Headers: call.Headers,
		Query:   call.Query,
	}
	if call.Data != "" {
		body, err := requestBody(call.Data, call.Headers)
		if err != nil {
			return nil, err
		}
		req.Body = body
	}

	resp, err := r.client.Request(ctx, req)
	if err != nil {
		return nil, err
	}

	res := &Result{Status: resp.StatusCode, RequestID: resp.RequestID, Headers: resp.Headers}
	if resp.IsJSON() {
		v, err := resp.Value()
		if err != nil {
			return nil, fmt.Errorf("decode response body: %w", err)
		}
		res.Body = v
	} else if len(resp.Body) > 0 {
		res.Body = resp.Text()
	}
	return res, nil
}

func requestBody(data string, headers map[string]string) (any, error) {
	for k, v := range headers {
		if strings.EqualFold(k, "Content-Type") && !strings.Contains(strings.ToLower(v), "json") {
			return data, nil
		}
	}
	if !json.Valid([]byte(data)) {
		return nil, fmt.Errorf("request data is not valid JSON")
	}
	return json.RawMessage(data), nil
}
