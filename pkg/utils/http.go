package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultClientTimeout = 10 * time.Second

func NewDefaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 10,
		},
		Timeout: defaultClientTimeout,
	}
}

var BuildVersion = "dev"

var UserAgentString = "foryou/" + BuildVersion

type requestDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s, response: %s", e.StatusCode, e.URL, e.Body)
}

// Permanent reports whether repeating the request can't change the outcome.
func (e *StatusError) Permanent() bool {
	switch {
	case e.StatusCode == http.StatusRequestTimeout, e.StatusCode == http.StatusTooManyRequests:
		return false
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return true
	default:
		return false
	}
}

// DoJSON sends the request and, when out is non-nil, decodes a JSON body into it.
func DoJSON(client requestDoer, request *http.Request, out any) error {
	request.Header.Set("User-Agent", UserAgentString)
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		truncatedBody, _ := LimitStringLength(string(body), 256)

		return &StatusError{
			StatusCode: response.StatusCode,
			URL:        request.URL.String(),
			Body:       truncatedBody,
		}
	}

	if out == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}

	return nil
}
