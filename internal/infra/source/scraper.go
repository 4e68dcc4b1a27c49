package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
	"github.com/bryanwahyu/privacy-prism/internal/middleware"
)

const (
	DefaultTimeout  = 30 * time.Second
	MaxBodyBytes    = 5 << 20
	MinExtractChars = 50
	maxRedirects    = 5
	maxDepth        = 512

	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHTML     = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.8"

	emptyPageMsg = "Could not extract meaningful content from the URL. The page might be empty or require JavaScript to render."
)

var _ domain.ContentSource = (*Scraper)(nil)

// Scraper fetches a page and reduces it to readable text.
type Scraper struct {
	client   *resty.Client
	validate func(string) error
}

type Option func(*Scraper)

// WithHTTPClient routes fetches through a copy of hc, e.g. the proxied client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) {
		timeout := s.client.GetClient().Timeout
		cp := *hc
		s.client = resty.NewWithClient(&cp).SetTimeout(timeout)
	}
}

// WithValidator replaces the SSRF check applied to the URL and every redirect.
func WithValidator(fn func(string) error) Option {
	return func(s *Scraper) { s.validate = fn }
}

func New(timeout time.Duration, opts ...Option) *Scraper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s := &Scraper{
		client:   resty.New().SetTimeout(timeout),
		validate: middleware.ValidateURL,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client.
		SetRedirectPolicy(
			resty.FlexibleRedirectPolicy(maxRedirects),
			resty.RedirectPolicyFunc(func(req *http.Request, _ []*http.Request) error {
				return s.validate(req.URL.String())
			}),
		).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", acceptHTML).
		SetHeader("Accept-Language", acceptLanguage)

	s.client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		log.Debug().
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Dur("duration", resp.Time()).
			Msg("source fetched")
		return nil
	})
	return s
}

// Fetch downloads url and returns its visible text. Every failure is a
// *domain.SourceFetchError whose message is safe to show to the caller.
func (s *Scraper) Fetch(ctx context.Context, url string) (string, error) {
	if err := s.validate(url); err != nil {
		return "", &domain.SourceFetchError{URL: url, Msg: "Invalid URL: " + err.Error(), Err: err}
	}
	if IsLikelyStaticSite(url) {
		log.Debug().Str("url", url).Msg("source looks static")
	} else {
		log.Debug().Str("url", url).Msg("source may need JavaScript to render")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return "", &domain.SourceFetchError{URL: url, Err: err}
	}
	body := resp.RawBody()
	defer body.Close()

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return "", &domain.SourceFetchError{URL: url, Msg: fmt.Sprintf("HTTP %d: %s", code, http.StatusText(code))}
	}

	r, err := charset.NewReader(io.LimitReader(body, MaxBodyBytes), resp.Header().Get("Content-Type"))
	if err != nil {
		return "", &domain.SourceFetchError{URL: url, Err: err}
	}
	text, err := ExtractText(r)
	if err != nil {
		return "", &domain.SourceFetchError{URL: url, Err: err}
	}
	if utf8.RuneCountInString(text) < MinExtractChars {
		return "", &domain.SourceFetchError{URL: url, Msg: emptyPageMsg}
	}

	log.Info().Str("url", url).Int("chars", utf8.RuneCountInString(text)).Msg("source text extracted")
	return text, nil
}

var skipped = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
	"img": true, "svg": true, "video": true, "audio": true,
	"template": true,
}

var blocks = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "br": true, "tr": true, "blockquote": true, "pre": true,
	"header": true, "footer": true, "main": true, "title": true,
}

var spaces = regexp.MustCompile(`[ \t\r\f\v\x{00a0}]+`)

// ExtractText parses HTML and keeps the visible text as a single line. Block
// boundaries and whitespace runs all collapse to one space.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	walk(doc, &sb, 0)

	lines := strings.Split(sb.String(), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(spaces.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, " "), nil
}

func walk(n *html.Node, sb *strings.Builder, depth int) {
	if depth > maxDepth {
		return
	}
	switch n.Type {
	case html.TextNode:
		sb.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if skipped[n.Data] {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, sb, depth+1)
	}

	if n.Type == html.ElementNode {
		if blocks[n.Data] {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}
	}
}

var staticPatterns = []*regexp.Regexp{
	regexp.MustCompile(`bbc\.com`),
	regexp.MustCompile(`wikipedia\.org`),
	regexp.MustCompile(`github\.com`),
	regexp.MustCompile(`medium\.com`),
	regexp.MustCompile(`stackoverflow\.com`),
	regexp.MustCompile(`reddit\.com`),
	regexp.MustCompile(`news\.`),
	regexp.MustCompile(`blog\.`),
}

// IsLikelyStaticSite guesses whether url renders without JavaScript. It is a
// hint for logs, not a gate.
func IsLikelyStaticSite(url string) bool {
	for _, p := range staticPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}
