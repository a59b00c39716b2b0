package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/viper"

	"github.com/mementoweb/robustlinks/internal/utils"
	"github.com/mementoweb/robustlinks/pkg/archives"
	"github.com/mementoweb/robustlinks/pkg/exclusion"
	"github.com/mementoweb/robustlinks/pkg/urival"
	"github.com/mementoweb/robustlinks/pkg/whttp"
)

// loadDocument reads an HTML document from a local path ("-" for stdin) or
// fetches it when the argument is an absolute HTTP(S) URL. It returns the
// parsed document and the URL or path identifying it.
func loadDocument(input string) (*goquery.Document, string, error) {
	if input == "" {
		return nil, "", fmt.Errorf("no input document given")
	}

	if urival.IsAbsoluteHTTPURL(input) {
		page, err := whttp.FetchPage(input, nil)
		if err != nil {
			return nil, "", fmt.Errorf("fetching %s: %w", input, err)
		}
		if page.Title != "" {
			utils.Log.Debug("fetched page: ", page.Title)
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body))
		if err != nil {
			return nil, "", err
		}
		return doc, input, nil
	}

	var reader io.Reader
	if input == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(input)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		reader = f
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, "", err
	}
	return doc, input, nil
}

// buildMatcher resolves the exclusion pattern source: an explicit file or
// URL, then the configured remote resource, then the built-in defaults.
// Remote sources load in the background; if they are not ready in time the
// classifier answers false, which only means some archived links may be
// re-annotated, so a warning is enough.
func buildMatcher(exclusionsFlag string) (interface{ IsKnownArchive(string) bool }, error) {
	source := exclusionsFlag
	if source == "" {
		source = viper.GetString("exclusions.resource")
	}

	if source == "" {
		return exclusion.Compile(archives.DefaultExclusionPatterns())
	}

	if urival.IsAbsoluteHTTPURL(source) {
		am := exclusion.NewAsyncMatcher()
		exclusion.LoadAsync(source, am)
		select {
		case <-am.Ready():
		case <-time.After(15 * time.Second):
			utils.Log.Warn("exclusion patterns not ready after 15s, archived links may not be recognized")
		}
		return am, nil
	}

	patterns, err := exclusion.LoadPatternsFile(source)
	if err != nil {
		return nil, err
	}
	return exclusion.Compile(patterns)
}

func lookupService(serviceFlag string) (archives.Service, error) {
	name := serviceFlag
	if name == "" {
		name = viper.GetString("archive.service")
	}
	return archives.Lookup(name)
}
