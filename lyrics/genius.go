package lyrics

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	GeniusName       = "genius"
	DefaultGeniusURL = "https://genius.com"
)

// Genius scrapes lyrics pages from genius.com.
type Genius struct {
	Endpoint  string
	Client    *http.Client
	UserAgent string
}

func (p *Genius) Name() string { return GeniusName }

func (p *Genius) Fetch(ctx context.Context, q Query) Result {
	base, err := url.Parse(strings.TrimSuffix(p.Endpoint, "/"))
	if err != nil {
		return failed(p.Name(), fmt.Sprintf("genius: bad endpoint: %v", err))
	}

	searchURL := base.String() + "/search?q=" + url.QueryEscape(strings.TrimSpace(q.Artist+" "+q.Title))
	doc, err := p.document(ctx, searchURL)
	if err != nil {
		return failed(p.Name(), err.Error())
	}
	href, ok := doc.Find("a[class^='SearchResultSong']").First().Attr("href")
	if !ok || href == "" {
		return failed(p.Name(), "genius: no search results")
	}
	ref, err := url.Parse(href)
	if err != nil {
		return failed(p.Name(), fmt.Sprintf("genius: bad result link: %v", err))
	}

	doc, err = p.document(ctx, base.ResolveReference(ref).String())
	if err != nil {
		return failed(p.Name(), err.Error())
	}
	var text strings.Builder
	doc.Find("div[class^='Lyrics__Container']").Each(func(_ int, s *goquery.Selection) {
		s.Find("br").Each(func(_ int, br *goquery.Selection) {
			br.ReplaceWithHtml("\n")
		})
		text.WriteString(s.Text())
		text.WriteString("\n")
	})
	return found(p.Name(), SplitLines(text.String()))
}

func (p *Genius) document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	status, body, err := get(ctx, p.Client, p.UserAgent, rawURL)
	if err != nil {
		return nil, fmt.Errorf("genius: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("genius: unexpected status %d", status)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("genius: parsing page: %w", err)
	}
	return doc, nil
}
