package lyrics

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const (
	MakeItPersonalName       = "makeitpersonal"
	DefaultMakeItPersonalURL = "https://makeitpersonal.co/lyrics"

	// makeItPersonalMissing is served with status 200 when the song is unknown.
	makeItPersonalMissing = "We don't have lyrics for this song yet"
)

// MakeItPersonal serves plain-text lyrics from makeitpersonal.co.
type MakeItPersonal struct {
	Endpoint  string
	Client    *http.Client
	UserAgent string
}

func (p *MakeItPersonal) Name() string { return MakeItPersonalName }

func (p *MakeItPersonal) Fetch(ctx context.Context, q Query) Result {
	params := url.Values{}
	params.Set("artist", q.Artist)
	params.Set("title", q.Title)

	status, body, err := get(ctx, p.Client, p.UserAgent, p.Endpoint+"?"+params.Encode())
	if err != nil || status != http.StatusOK {
		return failed(p.Name(), "failed to connect to makeitpersonal.co")
	}
	text := string(body)
	if strings.Contains(text, makeItPersonalMissing) {
		return failed(p.Name(), text)
	}
	return found(p.Name(), SplitLines(text))
}
