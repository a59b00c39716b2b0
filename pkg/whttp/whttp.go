// Package whttp wraps page fetching for the CLI: retrying HTTP client,
// browser-ish headers, and HTML title extraction.
package whttp

import (
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

// Page is a fetched HTML document.
type Page struct {
	URL        string
	StatusCode int
	Title      string
	Body       string
}

// NewClient builds the retrying client used for all outbound requests.
func NewClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = log.New(io.Discard, "", 0)
	client.RetryMax = 3
	client.HTTPClient.Timeout = 30 * time.Second
	return client
}

// FetchPage downloads rawURL and extracts its title.
func FetchPage(rawURL string, client *retryablehttp.Client) (*Page, error) {
	if client == nil {
		client = NewClient()
	}

	req, err := retryablehttp.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	page := &Page{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Body:       string(bodyBytes),
	}

	if title, ok := htmlTitle(page.Body); ok {
		page.Title = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", ""))
	}

	return page, nil
}

// Status issues a HEAD request and reports the response code. Used by the
// link-rot liveness check.
func Status(rawURL string, client *retryablehttp.Client) (int, error) {
	if client == nil {
		client = NewClient()
	}

	req, err := retryablehttp.NewRequest(http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()

	return resp.StatusCode, nil
}

func htmlTitle(body string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", false
	}
	return traverse(doc)
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func traverse(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result, ok := traverse(c); ok {
			return result, ok
		}
	}

	return "", false
}
