package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// instanceAction forwards an instance-scoped call to
// {backend}/instances/{name}{suffix}. Upstream failures keep their status
// and carry the upstream body as details.
func (p *Proxy) instanceAction(method, suffix, failure string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, msgMissingAuth)
			return
		}
		name := chi.URLParam(r, "name")
		if name == "" {
			writeError(w, http.StatusBadRequest, msgMissingInstance)
			return
		}

		target := p.backendURL + "/instances/" + url.PathEscape(name) + suffix
		header := http.Header{}
		header.Set("Content-Type", "application/json")
		header.Set("Authorization", auth)

		res, err := p.forward(r.Context(), method, target, header, nil)
		if err != nil {
			p.log.Error("instance request failed", zap.String("instance", name), zap.String("action", failure), zap.Error(err))
			writeError(w, http.StatusInternalServerError, msgUnexpected)
			return
		}
		if !res.OK() {
			p.log.Warn(failure,
				zap.String("instance", name),
				zap.Int("status", res.Status),
				zap.ByteString("details", res.Body),
			)
			writeJSON(w, res.Status, errorBody{Error: failure, Details: res.Body})
			return
		}
		writeJSON(w, http.StatusOK, res.Body)
	}
}

// passthrough forwards to {backend}{path}. Upstream error bodies are
// returned verbatim with the upstream status.
func (p *Proxy) passthrough(method, path string, success int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, msgMissingAuth)
			return
		}

		header := http.Header{}
		header.Set("Authorization", auth)
		var body []byte
		if method != http.MethodGet {
			data, err := io.ReadAll(r.Body)
			if err != nil || !json.Valid(data) {
				p.log.Warn("rejecting request body", zap.String("path", path), zap.Error(err))
				writeError(w, http.StatusInternalServerError, msgUnexpected)
				return
			}
			body = data
			header.Set("Content-Type", "application/json")
		}

		res, err := p.forward(r.Context(), method, p.backendURL+path, header, body)
		if err != nil {
			p.log.Error("backend request failed", zap.String("path", path), zap.Error(err))
			writeError(w, http.StatusInternalServerError, msgUnexpected)
			return
		}
		if !res.OK() {
			writeJSON(w, res.Status, res.Body)
			return
		}
		writeJSON(w, success, res.Body)
	}
}

func (p *Proxy) handleExamplePrompts(w http.ResponseWriter, r *http.Request) {
	header := http.Header{}
	header.Set("Content-Type", "application/json")

	res, err := p.forward(r.Context(), http.MethodGet, p.backendURL+"/example-prompts", header, nil)
	switch {
	case err != nil:
		p.log.Error("fetch example prompts", zap.Error(err))
	case !res.OK():
		p.log.Error("fetch example prompts", zap.Int("status", res.Status))
	case !res.Parsed:
		p.log.Error("fetch example prompts: body is not json")
	default:
		writeJSON(w, http.StatusOK, res.Body)
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to fetch example prompts")
}

type gatewayCreateRequest struct {
	InstanceName string `json:"instanceName"`
	Integration  string `json:"integration"`
	QRCode       bool   `json:"qrcode"`
}

// handleGatewayConnect creates an instance directly on the gateway using the
// server-side API key.
func (p *Proxy) handleGatewayConnect(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		p.log.Warn("decode connect body", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgUnexpected)
		return
	}
	name, ok := in["instanceName"].(string)
	if !ok || name == "" {
		p.log.Warn("invalid instanceName", zap.Any("instanceName", in["instanceName"]))
		writeError(w, http.StatusBadRequest, msgInvalidInstance)
		return
	}
	if p.gatewayURL == "" || p.gatewayKey == "" || p.integration == "" {
		p.log.Error("gateway url, api key or integration type not configured")
		writeError(w, http.StatusInternalServerError, msgMisconfigured)
		return
	}

	body, err := json.Marshal(gatewayCreateRequest{InstanceName: name, Integration: p.integration, QRCode: true})
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgUnexpected)
		return
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("apikey", p.gatewayKey)

	res, err := p.forward(r.Context(), http.MethodPost, p.gatewayURL+"/instance/create", header, body)
	if err != nil {
		p.log.Error("gateway create instance", zap.String("instance", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgUnexpected)
		return
	}
	if !res.OK() {
		p.log.Warn("Failed to create instance",
			zap.String("instance", name),
			zap.Int("status", res.Status),
			zap.ByteString("details", res.Body),
		)
		writeJSON(w, res.Status, errorBody{Error: "Failed to create instance", Details: res.Body})
		return
	}
	writeJSON(w, http.StatusOK, res.Body)
}
