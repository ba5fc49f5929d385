package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient embeds *resty.Client so callers get its full API.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client. A non-empty baseURL and a
// positive timeout are applied to every request.
//
//	client := utils.NewHTTPClient("http://localhost:8080", 10*time.Second)
//	resp, err := client.R().SetResult(&out).Get("/api/version")
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	c := resty.New()
	if baseURL != "" {
		c.SetBaseURL(baseURL)
	}
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &HTTPClient{Client: c}
}
