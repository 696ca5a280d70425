package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the inventory REST API with bearer-token auth.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the inventory service at baseURL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do performs one request and decodes the JSON response into out (when
// non-nil). Any non-2xx status becomes a *RemoteError carrying the body.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return &RemoteError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) FindAssetID(ctx context.Context, name string) (int64, bool, error) {
	var assets []Asset
	path := "/api/v1/assets?name=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, &assets); err != nil {
		return 0, false, err
	}
	if len(assets) == 0 {
		return 0, false, nil
	}
	return assets[0].ID, true, nil
}

func (c *Client) CreateAsset(ctx context.Context, containerID int64, name string) (int64, error) {
	req := map[string]any{"container": containerID, "name": name}
	var created Asset
	if err := c.do(ctx, http.MethodPost, "/api/v1/assets", req, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *Client) SetProperty(ctx context.Context, assetID int64, property string, value any) error {
	path := fmt.Sprintf("/api/v1/assets/%d", assetID)
	return c.do(ctx, http.MethodPatch, path, map[string]any{property: value}, nil)
}

func (c *Client) AddCollector(ctx context.Context, assetID int64, key string, config map[string]any) error {
	path := fmt.Sprintf("/api/v1/assets/%d/collectors/%s", assetID, url.PathEscape(key))
	return c.do(ctx, http.MethodPut, path, map[string]any{"config": config}, nil)
}

func (c *Client) RemoveCollector(ctx context.Context, assetID int64, key string) error {
	path := fmt.Sprintf("/api/v1/assets/%d/collectors/%s", assetID, url.PathEscape(key))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) AddLabel(ctx context.Context, assetID int64, labelID int64) error {
	path := fmt.Sprintf("/api/v1/assets/%d/labels/%d", assetID, labelID)
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

func (c *Client) RemoveLabel(ctx context.Context, assetID int64, labelID int64) error {
	path := fmt.Sprintf("/api/v1/assets/%d/labels/%d", assetID, labelID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) FetchAsset(ctx context.Context, assetID int64) (*Asset, error) {
	var asset Asset
	path := fmt.Sprintf("/api/v1/assets/%d", assetID)
	if err := c.do(ctx, http.MethodGet, path, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (c *Client) FetchAssets(ctx context.Context, containerID int64, filter Filter) ([]Asset, error) {
	q := url.Values{}
	q.Set("container", strconv.FormatInt(containerID, 10))
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.Kind != "" {
		q.Set("kind", filter.Kind)
	}
	var assets []Asset
	if err := c.do(ctx, http.MethodGet, "/api/v1/assets?"+q.Encode(), nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (c *Client) FetchLabelName(ctx context.Context, labelID int64) (string, error) {
	var label Label
	path := fmt.Sprintf("/api/v1/labels/%d", labelID)
	if err := c.do(ctx, http.MethodGet, path, nil, &label); err != nil {
		return "", err
	}
	return label.Name, nil
}

func (c *Client) ResolveContainerID(ctx context.Context) (int64, error) {
	var container struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/containers/default", nil, &container); err != nil {
		return 0, err
	}
	return container.ID, nil
}
