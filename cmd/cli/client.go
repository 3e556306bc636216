package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vidshare/backend/internal/telemetry"
	"github.com/vidshare/backend/internal/util"
)

var httpClient = telemetry.NewInstrumentedHTTPClient(telemetry.HTTPClientConfig{
	ServiceName: "vidshare-cli",
	Timeout:     15 * time.Second,
})

// call sends an API request and decodes a 2xx JSON body into out. It returns
// the raw body so --output json can print it verbatim.
func call(method, path string, out interface{}) ([]byte, error) {
	req, err := http.NewRequest(method, apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp util.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Code != "" {
			if errResp.Retryable {
				return nil, fmt.Errorf("API error %s: %s (retryable)", errResp.Code, errResp.Message)
			}
			return nil, fmt.Errorf("API error %s: %s", errResp.Code, errResp.Message)
		}
		return nil, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return body, nil
}
