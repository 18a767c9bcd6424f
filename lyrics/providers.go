package lyrics

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUnknownProvider is returned by New for names it does not know.
var ErrUnknownProvider = errors.New("unknown lyrics provider")

// DefaultProviders is the provider priority order used when none is given.
var DefaultProviders = []string{MakeItPersonalName, LyricsOVHName}

// Options configures the providers built by New. Empty endpoints fall back to
// the public services.
type Options struct {
	Timeout           time.Duration
	UserAgent         string
	MakeItPersonalURL string
	LyricsOVHURL      string
	LRCLibURL         string
	GeniusURL         string
}

// New builds providers in the order named. All providers share one client.
func New(names []string, opts Options) ([]Provider, error) {
	if len(names) == 0 {
		names = DefaultProviders
	}
	client := &http.Client{Timeout: opts.Timeout}

	var providers []Provider
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case MakeItPersonalName:
			providers = append(providers, &MakeItPersonal{
				Endpoint:  orDefault(opts.MakeItPersonalURL, DefaultMakeItPersonalURL),
				Client:    client,
				UserAgent: opts.UserAgent,
			})
		case LyricsOVHName:
			providers = append(providers, &LyricsOVH{
				Endpoint:  orDefault(opts.LyricsOVHURL, DefaultLyricsOVHURL),
				Client:    client,
				UserAgent: opts.UserAgent,
			})
		case LRCLibName:
			providers = append(providers, &LRCLib{
				Endpoint:  orDefault(opts.LRCLibURL, DefaultLRCLibURL),
				Client:    client,
				UserAgent: opts.UserAgent,
			})
		case GeniusName:
			providers = append(providers, &Genius{
				Endpoint:  orDefault(opts.GeniusURL, DefaultGeniusURL),
				Client:    client,
				UserAgent: opts.UserAgent,
			})
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
		}
	}
	return providers, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
