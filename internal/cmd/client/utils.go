package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

var httpClient = &http.Client{Timeout: requestTimeout}

// adminTokenFromEnv returns the admin token from TRACKER_ADMIN_TOKEN.
func adminTokenFromEnv() string {
	return os.Getenv("TRACKER_ADMIN_TOKEN")
}

// call performs one request and returns the body of a 2xx response. Any other
// status becomes an error carrying the server's body, which for worker routes
// is the wire string (NoItemsLeft, InvalidID, ...).
func call(ctx context.Context, method, base, path string, query url.Values, token string) ([]byte, error) {
	target := strings.TrimRight(base, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http error: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// printBody writes JSON bodies indented and anything else verbatim.
func printBody(w io.Writer, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var v any
		if json.Unmarshal(trimmed, &v) == nil {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		}
	}
	_, err := fmt.Fprintln(w, string(trimmed))
	return err
}
