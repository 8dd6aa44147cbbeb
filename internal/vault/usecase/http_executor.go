package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// httpRequestExecutorName is the built-in executor behind
// Client.MakeAuthenticatedRequest.
const httpRequestExecutorName = "http_request"

// maxResponseBytes caps how much of an executor response body is returned.
const maxResponseBytes = 1 << 20

// HTTPResponse is the result shape of the http_request executor. It carries
// the upstream response, never the credential that authenticated it.
type HTTPResponse struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

// newHTTPRequestExecutor builds the executor that performs an HTTP request
// authenticated with the resolved secret. The secret becomes an Authorization
// header (or a custom header named by auth_header) on the outbound request and
// is never part of the returned result.
//
// Supported params: url (required), method (default GET), body,
// auth_scheme (default "Bearer"), auth_header (default "Authorization").
//
// The request runs under the caller's context; cancellation and deadlines are
// the caller's own discipline, the vault adds no implicit timeout.
func newHTTPRequestExecutor(client *http.Client) ExecutorFunc {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return func(ctx context.Context, secret string, params map[string]any) (any, error) {
		url, ok := params["url"].(string)
		if !ok || url == "" {
			return nil, fmt.Errorf("http_request requires a url parameter")
		}

		method := http.MethodGet
		if m, ok := params["method"].(string); ok && m != "" {
			method = strings.ToUpper(m)
		}

		var body io.Reader
		if b, ok := params["body"].(string); ok && b != "" {
			body = strings.NewReader(b)
		}

		request, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("http_request: %w", err)
		}

		header := "Authorization"
		if h, ok := params["auth_header"].(string); ok && h != "" {
			header = h
		}

		scheme := "Bearer"
		if s, ok := params["auth_scheme"].(string); ok {
			scheme = s
		}

		if scheme == "" {
			request.Header.Set(header, secret)
		} else {
			request.Header.Set(header, scheme+" "+secret)
		}

		response, err := client.Do(request)
		if err != nil {
			return nil, fmt.Errorf("http_request: %w", err)
		}
		defer response.Body.Close()

		responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("http_request: %w", err)
		}

		return &HTTPResponse{
			StatusCode: response.StatusCode,
			Body:       string(responseBody),
		}, nil
	}
}
