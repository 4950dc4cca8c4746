package dataflows

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// PageClient fetches static HTML pages with a fixed timeout and a fixed
// browser user-agent. There is no retry: a failed page fetch is fatal to
// the run.
type PageClient struct {
	client *resty.Client
}

// NewPageClient creates a new page client
func NewPageClient(config *Config) *PageClient {
	client := resty.New()
	client.SetTimeout(config.RequestTimeout)
	client.SetHeader("User-Agent", config.UserAgent)

	return &PageClient{client: client}
}

// FetchHTML downloads a page and returns its body. Any non-success
// status is an error.
func (pc *PageClient) FetchHTML(url string) (string, error) {
	resp, err := pc.client.R().Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode(), url)
	}

	return resp.String(), nil
}
