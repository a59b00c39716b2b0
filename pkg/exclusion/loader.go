package exclusion

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/mementoweb/robustlinks/internal/utils"
)

// ParsePatternsJSON extracts pattern strings from a JSON exclusion resource.
// Two shapes are accepted: a bare array of pattern strings, or an object
// whose values are pattern strings or arrays of them, keyed by archive name.
func ParsePatternsJSON(body []byte) ([]string, error) {
	parsed := gjson.ParseBytes(body)

	var patterns []string
	appendResult := func(v gjson.Result) {
		if v.Type == gjson.String && v.String() != "" {
			patterns = append(patterns, v.String())
		}
	}

	switch {
	case parsed.IsArray():
		for _, v := range parsed.Array() {
			appendResult(v)
		}
	case parsed.IsObject():
		parsed.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				for _, v := range value.Array() {
					appendResult(v)
				}
			} else {
				appendResult(value)
			}
			return true
		})
	default:
		return nil, fmt.Errorf("exclusion resource is neither a JSON array nor an object")
	}

	if len(patterns) == 0 {
		return nil, fmt.Errorf("exclusion resource contains no patterns")
	}
	return patterns, nil
}

// FetchPatterns downloads and parses a remote JSON exclusion resource.
func FetchPatterns(resourceURL string) ([]string, error) {
	client := retryablehttp.NewClient()
	client.Logger = log.New(io.Discard, "", 0)
	client.RetryMax = 3

	resp, err := client.Get(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("fetching exclusion resource: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exclusion resource returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading exclusion resource: %w", err)
	}

	return ParsePatternsJSON(body)
}

// LoadPatternsFile reads and parses a local JSON exclusion resource.
func LoadPatternsFile(path string) ([]string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading exclusion file: %w", err)
	}
	return ParsePatternsJSON(body)
}

// LoadAsync fetches and compiles a remote pattern resource in the background,
// installing the result into am when done. Failures leave am unset (queries
// keep answering false) and are logged, not returned: the caller decides how
// long to wait on am.Ready().
func LoadAsync(resourceURL string, am *AsyncMatcher) {
	go func() {
		patterns, err := FetchPatterns(resourceURL)
		if err != nil {
			utils.Log.Warn("could not load exclusion patterns: ", err)
			return
		}
		m, err := Compile(patterns)
		if err != nil {
			utils.Log.Warn("could not compile exclusion patterns: ", err)
			return
		}
		utils.Log.Debug("loaded ", m.Len(), " exclusion patterns from ", resourceURL)
		am.Set(m)
	}()
}
