// Package proxy serves the thin HTTP routes that sit between a dashboard
// client and the backend or gateway. Each route forwards one request,
// passing the caller's Authorization header through, and reshapes upstream
// failures into {"error": ..., "details": ...} bodies.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/matheus3301/wppmanager/internal/config"
	"go.uber.org/zap"
)

const (
	msgMissingAuth     = "Missing authorization header"
	msgMissingInstance = "Missing instance name"
	msgUnexpected      = "Unexpected server error"
	msgMisconfigured   = "Server misconfiguration"
	msgInvalidInstance = "Invalid instanceName"
)

// Proxy forwards dashboard routes upstream.
type Proxy struct {
	backendURL  string
	gatewayURL  string
	gatewayKey  string
	integration string
	origins     []string
	client      *http.Client
	log         *zap.Logger
}

// New builds a Proxy from cfg. A nil hc gets a client bounded by
// cfg.RequestTimeout.
func New(cfg *config.Config, hc *http.Client, log *zap.Logger) *Proxy {
	if log == nil {
		log = zap.NewNop()
	}
	if hc == nil {
		hc = &http.Client{Timeout: cfg.RequestTimeout.Duration}
	}
	return &Proxy{
		backendURL:  strings.TrimRight(cfg.BackendURL, "/"),
		gatewayURL:  strings.TrimRight(cfg.GatewayURL, "/"),
		gatewayKey:  cfg.GatewayAPIKey,
		integration: cfg.GatewayIntegration,
		origins:     cfg.CORSOrigins,
		client:      hc,
		log:         log,
	}
}

// errorBody is the JSON shape of every failure the proxy produces itself.
type errorBody struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}

// upstreamResponse is a completed upstream exchange. Body is always valid
// JSON: a body that is empty or not JSON becomes {}.
type upstreamResponse struct {
	Status int
	Body   json.RawMessage
	Parsed bool
}

func (u *upstreamResponse) OK() bool {
	return u.Status >= 200 && u.Status < 300
}

var emptyObject = json.RawMessage(`{}`)

func (p *Proxy) forward(ctx context.Context, method, target string, header http.Header, body []byte) (*upstreamResponse, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if id := middleware.GetReqID(ctx); id != "" {
		req.Header.Set(requestIDHeader, id)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	out := &upstreamResponse{Status: resp.StatusCode, Body: emptyObject}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && json.Valid(trimmed) {
		out.Body = json.RawMessage(trimmed)
		out.Parsed = true
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
