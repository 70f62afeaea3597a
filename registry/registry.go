package registry

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client fetches package pages from the registry website.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// PageText issues a GET for the package's registry page and returns the
// response body as text. Any transport failure or non-200 status is
// collapsed into a single error; there are no retries.
func (c *Client) PageText(name string) (string, error) {
	url := c.baseURL + "/" + name

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %s, %d %s", url, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	return string(body), nil
}
