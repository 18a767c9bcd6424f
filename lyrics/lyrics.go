package lyrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultUserAgent is sent with every provider request.
const DefaultUserAgent = "LyricsCMUS/1.0 (https://github.com/best8oy/LyricsCMUS)"

// Format describes how Result.Lines should be read.
type Format int

const (
	FormatPlain Format = iota
)

func (f Format) String() string {
	switch f {
	case FormatPlain:
		return "plain"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Query is the track a provider is asked about.
type Query struct {
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// Result is the outcome of one provider call. Reason is set when !Found.
type Result struct {
	Provider string
	Found    bool
	Format   Format
	Lines    []string
	Reason   string
}

func found(provider string, lines []string) Result {
	if strings.TrimSpace(strings.Join(lines, "")) == "" {
		return failed(provider, "empty lyrics")
	}
	return Result{Provider: provider, Found: true, Format: FormatPlain, Lines: lines}
}

func failed(provider, reason string) Result {
	return Result{Provider: provider, Reason: reason}
}

// Provider looks up lyrics for a single service. Failures come back as a
// Result with Found false, never as a panic.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q Query) Result
}

// Converter rewrites lyric text, e.g. Traditional to Simplified Chinese.
type Converter interface {
	Convert(in string) (string, error)
}

// Fetcher queries its providers in priority order.
type Fetcher struct {
	Providers []Provider
	Converter Converter
	Log       logrus.FieldLogger
}

// FetchAll asks every provider, one after another, and returns the
// successful results in provider order. No provider is skipped because an
// earlier one succeeded.
func (f *Fetcher) FetchAll(ctx context.Context, q Query) []Result {
	var all []Result
	for _, p := range f.Providers {
		res := p.Fetch(ctx, q)
		if !res.Found {
			f.debugf(p.Name(), q, "no lyrics: %s", res.Reason)
			continue
		}
		f.debugf(p.Name(), q, "found %d lines", len(res.Lines))
		all = append(all, f.convert(res))
	}
	return all
}

func (f *Fetcher) convert(res Result) Result {
	if f.Converter == nil {
		return res
	}
	lines := make([]string, len(res.Lines))
	for i, line := range res.Lines {
		out, err := f.Converter.Convert(line)
		if err != nil {
			out = line
		}
		lines[i] = out
	}
	res.Lines = lines
	return res
}

func (f *Fetcher) debugf(provider string, q Query, format string, args ...any) {
	if f.Log == nil {
		return
	}
	f.Log.WithFields(logrus.Fields{
		"provider": provider,
		"track":    q.Artist + " - " + q.Title,
	}).Debugf(format, args...)
}

// SplitLines splits text into lines without trimming them. CRLF endings are
// accepted and a single trailing newline does not produce an empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// get performs a GET request and reads the whole body.
func get(ctx context.Context, client *http.Client, userAgent, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
