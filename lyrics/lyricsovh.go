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
	LyricsOVHName       = "lyricsovh"
	DefaultLyricsOVHURL = "https://api.lyrics.ovh/v1"
)

// LyricsOVH serves JSON lyrics from api.lyrics.ovh.
type LyricsOVH struct {
	Endpoint  string
	Client    *http.Client
	UserAgent string
}

type ovhResponse struct {
	Lyrics string `json:"lyrics"`
}

func (p *LyricsOVH) Name() string { return LyricsOVHName }

func (p *LyricsOVH) Fetch(ctx context.Context, q Query) Result {
	apiURL := strings.TrimSuffix(p.Endpoint, "/") + "/" + url.PathEscape(q.Artist) + "/" + url.PathEscape(q.Title)

	status, body, err := get(ctx, p.Client, p.UserAgent, apiURL)
	if err != nil {
		return failed(p.Name(), fmt.Sprintf("failed to connect to ovh: %v", err))
	}
	if status == http.StatusNotFound {
		return failed(p.Name(), "song not found")
	}
	if status != http.StatusOK {
		return failed(p.Name(), fmt.Sprintf("failed to connect to ovh: code %d", status))
	}
	var resp ovhResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return failed(p.Name(), fmt.Sprintf("ovh: malformed response: %v", err))
	}
	return found(p.Name(), SplitLines(resp.Lyrics))
}
