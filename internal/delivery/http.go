package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	providerHTTP       = "http-sms"
	defaultHTTPTimeout = 15 * time.Second
	defaultHTTPBaseURL = "https://www.smslocal.com/dev/bulkV2"
)

// HTTPGateway sends SMS through a bulk HTTP SMS provider.
type HTTPGateway struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPGateway(apiKey, baseURL string) *HTTPGateway {
	if baseURL == "" {
		baseURL = defaultHTTPBaseURL
	}
	return &HTTPGateway{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// Send posts the message. The provider expects digits only, so the leading
// "+" of an E.164 number is dropped.
func (g *HTTPGateway) Send(ctx context.Context, destination, message string) error {
	if g.APIKey == "" {
		return &DeliveryError{Provider: providerHTTP, Err: fmt.Errorf("API key not configured")}
	}

	raw, err := json.Marshal(map[string]string{
		"route":   "q",
		"numbers": strings.TrimPrefix(destination, "+"),
		"message": message,
	})
	if err != nil {
		return &DeliveryError{Provider: providerHTTP, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return &DeliveryError{Provider: providerHTTP, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", g.APIKey)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return &DeliveryError{Provider: providerHTTP, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &DeliveryError{
			Provider: providerHTTP,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("body=%s", string(b)),
		}
	}

	return nil
}
