// Package soar talks to the Solar Orbiter Archive: TAP listings of public
// files and per-file downloads.
package soar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/solartools/epdload/schema"
)

const (
	defaultBaseURL = "http://soar.esac.esa.int/soar-sl-tap"
	defaultTimeout = 60 * time.Second
)

// Client queries and downloads from the archive over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a client against the public archive with a bounded
// request timeout.
func NewClient() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

// tapResponse is the JSON shape of a TAP sync query result.
type tapResponse struct {
	Data [][]any `json:"data"`
}

// ListCandidates queries the v_public_files TAP view for every file whose
// name starts with the given stem. Names without a parseable version suffix
// are dropped.
func (c *Client) ListCandidates(ctx context.Context, stem string, _ time.Time) ([]schema.FileCandidate, error) {
	query := fmt.Sprintf("SELECT filename FROM v_public_files WHERE filename LIKE '%s%%'", stem)
	values := url.Values{
		"REQUEST": {"doQuery"},
		"LANG":    {"ADQL"},
		"FORMAT":  {"json"},
		"QUERY":   {query},
	}
	reqURL := c.BaseURL + "/tap/sync?" + values.Encode()

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	var parsed tapResponse
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, &schema.NetworkError{URL: reqURL, Err: err}
	}

	var candidates []schema.FileCandidate
	for _, row := range parsed.Data {
		if len(row) == 0 {
			continue
		}
		name, ok := row[0].(string)
		if !ok {
			continue
		}
		version, ok := schema.ParseVersion(name)
		if !ok {
			continue
		}
		candidates = append(candidates, schema.FileCandidate{Name: name, Version: version})
	}
	return candidates, nil
}

// Download retrieves one file through the LAST_PRODUCT endpoint. The body is
// written to a temporary file next to the destination and renamed into place
// only when fully received, so the final name never holds a truncated file.
func (c *Client) Download(ctx context.Context, name string, destPath string) (int64, error) {
	values := url.Values{
		"retrieval_type": {"LAST_PRODUCT"},
		"data_item_id":   {strings.TrimSuffix(name, ".cdf")},
		"product_type":   {productType(name)},
	}
	reqURL := c.BaseURL + "/data?" + values.Encode()

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	tmpPath := destPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, &schema.NetworkError{URL: reqURL, Err: err}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return 0, err
	}
	return written, nil
}

// get performs one GET request and returns the body on HTTP 200.
func (c *Client) get(ctx context.Context, reqURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &schema.NetworkError{URL: reqURL, Err: err}
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &schema.NetworkError{URL: reqURL, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &schema.NetworkError{URL: reqURL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	return resp.Body, nil
}

// productType maps a filename to the archive product family it lives in.
func productType(name string) string {
	if strings.Contains(name, "_LL02_") {
		return "LOW_LATENCY"
	}
	return "SCIENCE"
}
