package http_request

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/registry"
)

const defaultTimeout = 30 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client performs the requests. A client with a 30s timeout is used
	// when nil.
	Client *http.Client
}

func (m *Module) client() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return &http.Client{
		Timeout: defaultTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Request performs an HTTP request and returns a map with the entries
// status_code, body and, for JSON responses, json holding the decoded body.
// Connections can select a single entry through their source output.
func Request(client *http.Client) registry.Func {
	return func(node graph.Node, inputs map[string]any, _ registry.Results) (any, error) {
		url, _ := inputs["url"].(string)
		method, _ := inputs["method"].(string)
		slog.Debug("Making HTTP request", "nodeID", node.ID, "method", method, "url", url)

		var body io.Reader
		if b, ok := inputs["body"].(string); ok {
			body = strings.NewReader(b)
		}

		req, err := http.NewRequestWithContext(context.Background(), method, url, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		slog.Debug("Received HTTP response", "nodeID", node.ID, "status", resp.Status)

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		out := map[string]any{
			"status_code": float64(resp.StatusCode),
			"body":        string(bodyBytes),
		}
		if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && mediaType == "application/json" {
			var decoded any
			if err := sonic.Unmarshal(bodyBytes, &decoded); err != nil {
				return nil, fmt.Errorf("failed to decode JSON response: %w", err)
			}
			out["json"] = decoded
		}
		return out, nil
	}
}

// Register registers the http_request function.
func (m *Module) Register(r *registry.Registry) {
	r.Register("http_request", &registry.Function{
		Description: "Performs an HTTP request; outputs status_code, body and json.",
		Inputs: []registry.Input{
			{Name: "url", Type: cty.String},
			{Name: "method", Type: cty.String, Default: http.MethodGet, HasDefault: true},
			{Name: "body", Type: cty.String, Optional: true},
		},
		Fn: Request(m.client()),
	})
}
