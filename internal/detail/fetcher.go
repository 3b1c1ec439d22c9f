package detail

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gpulab/gpuboard/internal/common"
)

const (
	// spoofed desktop browser; spec sites refuse obvious bots
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	DefaultFetchTimeout = 15 * time.Second

	maxContentChars = 8000
	minContentChars = 100

	stripSelectors = "script, style, nav, header, footer, .sidebar, .advertisement, .ad, .menu, .navigation"
)

// contentSelectors are tried in order; the first one holding a substantial
// text block wins. The whole body is the fallback.
var contentSelectors = []string{
	".content",
	"#content",
	".main-content",
	".specs",
	".specification",
	".techspecs",
	".gpu-specs",
}

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	boilerplateRe = regexp.MustCompile(`(?i)JavaScript is disabled|Please enable JavaScript|Cookie|Privacy Policy|Terms of Service`)
)

// Fetcher retrieves one GPU detail page and reduces it to a cleaned,
// length-bounded text block. It never retries; retry policy belongs to
// callers.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads and extracts the page. The result is never shorter than
// minContentChars: when extraction yields less, a placeholder naming the GPU
// and its URL is substituted so callers always receive usable text. Network
// and status failures surface as *common.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, name, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &common.FetchError{Msg: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &common.FetchError{Msg: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &common.FetchError{Status: resp.StatusCode, Msg: resp.Status}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", &common.FetchError{Msg: "parse html: " + err.Error()}
	}

	doc.Find(stripSelectors).Remove()

	var raw string
	for _, sel := range contentSelectors {
		s := doc.Find(sel)
		if s.Length() > 0 && len(strings.TrimSpace(s.Text())) > minContentChars {
			raw = s.Text()
			break
		}
	}
	if raw == "" {
		raw = doc.Find("body").Text()
	}

	content := cleanContent(raw)

	if r := []rune(content); len(r) > maxContentChars {
		content = string(r[:maxContentChars]) + "..."
	}

	if len([]rune(content)) < minContentChars {
		content = placeholder(name, url)
	}
	return content, nil
}

func cleanContent(s string) string {
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = boilerplateRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func placeholder(name, url string) string {
	return fmt.Sprintf("GPU name: %s\nSource URL: %s\nNote: detailed specification extraction failed, please refer to the source page.", name, url)
}
