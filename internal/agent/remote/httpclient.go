package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"convoyinspect/internal/agent/models"
	"convoyinspect/internal/common"
)

// HTTPClient implements Client against the data service's JSON API. Every
// request carries the device's opaque bearer token; row-level access control
// is enforced by the service itself.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health returned %s", common.ErrUnavailable, resp.Status)
	}
	return nil
}

func (c *HTTPClient) HasCompletedInspection(ctx context.Context, missionID string, t models.InspectionType) (bool, error) {
	path := fmt.Sprintf("/api/missions/%s/inspections/%s", url.PathEscape(missionID), url.PathEscape(string(t)))
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, c.statusError(resp)
	}
}

func (c *HTTPClient) CreateInspection(ctx context.Context, rec *InspectionRecord) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/inspections", rec)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", c.statusError(resp)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	if body.ID == "" {
		return "", fmt.Errorf("create response missing inspection id")
	}
	return body.ID, nil
}

func (c *HTTPClient) CreateInspectionAsset(ctx context.Context, rec *AssetRecord) error {
	path := fmt.Sprintf("/api/inspections/%s/assets", url.PathEscape(rec.InspectionID))
	resp, err := c.do(ctx, http.MethodPost, path, rec)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}
	return nil
}

func (c *HTTPClient) CloseMission(ctx context.Context, missionID string, t models.InspectionType) error {
	path := fmt.Sprintf("/api/missions/%s/status", url.PathEscape(missionID))
	payload := map[string]string{"inspection_type": string(t)}
	resp, err := c.do(ctx, http.MethodPatch, path, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrMissionNotClosed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusForbidden:
		// access denial is a named condition, not a generic error
		return common.ErrMissionNotClosed
	default:
		return fmt.Errorf("%w: %w", common.ErrMissionNotClosed, c.statusError(resp))
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}
	return resp, nil
}

func (c *HTTPClient) statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return common.ErrUnauthorized
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("data service returned %s: %s", resp.Status, strings.TrimSpace(string(b)))
}
