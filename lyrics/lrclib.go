package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	LRCLibName       = "lrclib"
	DefaultLRCLibURL = "https://lrclib.net/api"
)

// LRCLib queries lrclib.net, falling back to its search endpoint.
type LRCLib struct {
	Endpoint  string
	Client    *http.Client
	UserAgent string
}

// lrclibAPIResponse models the response from lrclib.net API.
type lrclibAPIResponse struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// lines prefers plain lyrics and strips timestamps from synced ones.
func (r lrclibAPIResponse) lines() []string {
	if r.PlainLyrics != "" {
		return SplitLines(r.PlainLyrics)
	}
	if r.SyncedLyrics != "" {
		return parseSyncedLyrics(r.SyncedLyrics)
	}
	return nil
}

func (p *LRCLib) Name() string { return LRCLibName }

func (p *LRCLib) Fetch(ctx context.Context, q Query) Result {
	title, artist, album := normalizeQuotes(q.Title), normalizeQuotes(q.Artist), normalizeQuotes(q.Album)
	base := strings.TrimSuffix(p.Endpoint, "/")

	// Try exact match endpoint
	params := url.Values{}
	params.Set("track_name", title)
	params.Set("artist_name", artist)
	if album != "" {
		params.Set("album_name", album)
	}
	if q.Duration > 0 {
		params.Set("duration", fmt.Sprintf("%.0f", q.Duration.Seconds()))
	}
	lines, err := p.fetchExact(ctx, base+"/get?"+params.Encode())
	if err != nil {
		return failed(p.Name(), err.Error())
	}
	if len(lines) > 0 {
		return found(p.Name(), lines)
	}

	// Fallback to search endpoint
	lines, err = p.fetchBySearch(ctx, base, title, artist)
	if err != nil {
		return failed(p.Name(), err.Error())
	}
	return found(p.Name(), lines)
}

// fetchExact returns nil lines without error when the track is unknown,
// letting the caller decide on a fallback.
func (p *LRCLib) fetchExact(ctx context.Context, apiURL string) ([]string, error) {
	status, body, err := get(ctx, p.Client, p.UserAgent, apiURL)
	if err != nil {
		return nil, fmt.Errorf("lrclib: %w", err)
	}
	if status == http.StatusNotFound || status == http.StatusBadRequest {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("lrclib: unexpected status %d", status)
	}
	var apiResp lrclibAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("lrclib: malformed response: %w", err)
	}
	return apiResp.lines(), nil
}

func (p *LRCLib) fetchBySearch(ctx context.Context, base, title, artist string) ([]string, error) {
	q := strings.TrimSpace(artist + " " + title)
	status, body, err := get(ctx, p.Client, p.UserAgent, base+"/search?q="+url.QueryEscape(q))
	if err != nil {
		return nil, fmt.Errorf("lrclib search: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("lrclib search: unexpected status %d", status)
	}
	var results []lrclibAPIResponse
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("lrclib search: malformed response: %w", err)
	}
	for _, r := range results {
		if lines := r.lines(); len(lines) > 0 {
			return lines, nil
		}
	}
	return nil, fmt.Errorf("lrclib search: no lyrics in %d results", len(results))
}

// parseSyncedLyrics drops the [mm:ss.xx] tags of LRC lyrics and keeps the text.
func parseSyncedLyrics(synced string) []string {
	var lines []string
	for _, line := range SplitLines(synced) {
		if !strings.HasPrefix(line, "[") {
			continue
		}
		endIdx := strings.Index(line, "]")
		if endIdx < 0 {
			continue
		}
		lines = append(lines, strings.TrimSpace(line[endIdx+1:]))
	}
	return lines
}

// normalizeQuotes replaces curly quotes with straight quotes for better API matching.
func normalizeQuotes(s string) string {
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.ReplaceAll(s, "‘", "'")
	s = strings.ReplaceAll(s, "“", "\"")
	s = strings.ReplaceAll(s, "”", "\"")
	return s
}
