package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoFace is returned when the collaborator ran but found no face under strict detection.
var ErrNoFace = errors.New("face could not be detected")

// maxResponseSize bounds how much of a collaborator response is read.
const maxResponseSize = 4 << 20

// Client talks to a DeepFace-compatible REST service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// HealthCheck verifies the collaborator is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deepface health check failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("deepface health check returned status %d", resp.StatusCode)
	}
	return nil
}

// Analyze posts the image to /analyze and returns the faces in response order.
func (c *Client) Analyze(ctx context.Context, r Request) ([]RawFace, error) {
	payload, err := json.Marshal(AnalyzeRequest{
		Img:              "data:" + r.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(r.Image),
		Actions:          r.Actions,
		EnforceDetection: r.EnforceDetection,
		DetectorBackend:  r.DetectorBackend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create analyze request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("deepface request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read deepface response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp.StatusCode, body)
	}

	return DecodeFaces(body)
}

// responseError turns a non-2xx response into an error, recognizing the no-face message.
func responseError(status int, body []byte) error {
	var errResp ErrorResponse
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		msg = errResp.Error
	}

	if IsNoFaceMessage(msg) {
		return fmt.Errorf("%w: %s", ErrNoFace, msg)
	}
	return fmt.Errorf("deepface returned status %d: %s", status, msg)
}

// IsNoFaceMessage reports whether a collaborator error text means strict detection found nothing.
func IsNoFaceMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "face could not be detected") ||
		strings.Contains(lower, "no face")
}
