package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

var nightOwl = Query{Title: "NightOwl", Artist: "Sarah Vane"}

func TestSplitLines(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{in: "Verse one\nVerse two", want: []string{"Verse one", "Verse two"}},
		{in: "Verse one\r\nVerse two\r\n", want: []string{"Verse one", "Verse two"}},
		{in: "  indented \n\nafter blank", want: []string{"  indented ", "", "after blank"}},
		{in: "", want: nil},
	}
	for _, tc := range cases {
		if got := SplitLines(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SplitLines(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMakeItPersonal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("artist"); got != "Sarah Vane" {
			t.Errorf("artist = %q", got)
		}
		if got := r.URL.Query().Get("title"); got != "NightOwl" {
			t.Errorf("title = %q", got)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected User-Agent header")
		}
		fmt.Fprint(w, "Verse one\nVerse two")
	}))
	defer srv.Close()

	p := &MakeItPersonal{Endpoint: srv.URL, Client: srv.Client()}
	res := p.Fetch(context.Background(), nightOwl)
	if !res.Found {
		t.Fatalf("Fetch() not found: %s", res.Reason)
	}
	if res.Format != FormatPlain || res.Provider != MakeItPersonalName {
		t.Fatalf("Fetch() = %+v", res)
	}
	if want := []string{"Verse one", "Verse two"}; !reflect.DeepEqual(res.Lines, want) {
		t.Fatalf("lines = %q, want %q", res.Lines, want)
	}
}

func TestMakeItPersonalSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Sorry, We don't have lyrics for this song yet.")
	}))
	defer srv.Close()

	p := &MakeItPersonal{Endpoint: srv.URL, Client: srv.Client()}
	res := p.Fetch(context.Background(), nightOwl)
	if res.Found {
		t.Fatal("expected sentinel body to be a miss")
	}
	if !strings.Contains(res.Reason, "don't have lyrics") {
		t.Fatalf("reason = %q", res.Reason)
	}
}

func TestMakeItPersonalBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := &MakeItPersonal{Endpoint: srv.URL, Client: srv.Client()}
	res := p.Fetch(context.Background(), nightOwl)
	if res.Found || res.Reason != "failed to connect to makeitpersonal.co" {
		t.Fatalf("Fetch() = %+v", res)
	}
}

func TestLyricsOVH(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/Sarah Vane/NightOwl" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"lyrics": "Verse one\nVerse two"}`)
	}))
	defer srv.Close()

	p := &LyricsOVH{Endpoint: srv.URL + "/v1", Client: srv.Client()}
	res := p.Fetch(context.Background(), nightOwl)
	if !res.Found {
		t.Fatalf("Fetch() not found: %s", res.Reason)
	}
	if want := []string{"Verse one", "Verse two"}; !reflect.DeepEqual(res.Lines, want) {
		t.Fatalf("lines = %q, want %q", res.Lines, want)
	}
}

func TestLyricsOVHFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		reason string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"error":"No lyrics found"}`, reason: "song not found"},
		{name: "server error", status: http.StatusBadGateway, body: "", reason: "failed to connect to ovh: code 502"},
		{name: "malformed", status: http.StatusOK, body: `{"lyrics":`, reason: "ovh: malformed response"},
		{name: "empty", status: http.StatusOK, body: `{"lyrics":""}`, reason: "empty lyrics"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			p := &LyricsOVH{Endpoint: srv.URL, Client: srv.Client()}
			res := p.Fetch(context.Background(), nightOwl)
			if res.Found {
				t.Fatal("expected miss")
			}
			if !strings.HasPrefix(res.Reason, tc.reason) {
				t.Fatalf("reason = %q, want prefix %q", res.Reason, tc.reason)
			}
		})
	}
}

func TestNetworkFailureIsAbsorbed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	client := &http.Client{Timeout: time.Second}
	for _, p := range []Provider{
		&MakeItPersonal{Endpoint: endpoint, Client: client},
		&LyricsOVH{Endpoint: endpoint, Client: client},
		&LRCLib{Endpoint: endpoint, Client: client},
		&Genius{Endpoint: endpoint, Client: client},
	} {
		res := p.Fetch(context.Background(), nightOwl)
		if res.Found || res.Reason == "" {
			t.Fatalf("%s: Fetch() = %+v, want miss with reason", p.Name(), res)
		}
	}
}

func TestLRCLibExact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/get" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("duration"); got != "215" {
			t.Errorf("duration = %q", got)
		}
		fmt.Fprint(w, `{"trackName":"NightOwl","plainLyrics":"Verse one\nVerse two"}`)
	}))
	defer srv.Close()

	p := &LRCLib{Endpoint: srv.URL + "/api", Client: srv.Client()}
	q := nightOwl
	q.Duration = 215 * time.Second
	res := p.Fetch(context.Background(), q)
	if want := []string{"Verse one", "Verse two"}; !res.Found || !reflect.DeepEqual(res.Lines, want) {
		t.Fatalf("Fetch() = %+v", res)
	}
}

func TestLRCLibFallsBackToSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/get", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Sarah Vane NightOwl" {
			t.Errorf("q = %q", got)
		}
		fmt.Fprint(w, `[{"trackName":"x"},{"syncedLyrics":"[00:01.00] Verse one\n[00:02.50]Verse two\nnoise"}]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := &LRCLib{Endpoint: srv.URL + "/api", Client: srv.Client()}
	res := p.Fetch(context.Background(), nightOwl)
	if want := []string{"Verse one", "Verse two"}; !res.Found || !reflect.DeepEqual(res.Lines, want) {
		t.Fatalf("Fetch() = %+v", res)
	}
}

func TestGenius(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a class="SearchResultSong__Link" href="/Sarah-vane-nightowl-lyrics">hit</a></body></html>`)
	})
	mux.HandleFunc("/Sarah-vane-nightowl-lyrics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="Lyrics__Container-sc">Verse one<br/>Verse two</div></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := &Genius{Endpoint: srv.URL, Client: srv.Client()}
	res := p.Fetch(context.Background(), nightOwl)
	if want := []string{"Verse one", "Verse two"}; !res.Found || !reflect.DeepEqual(res.Lines, want) {
		t.Fatalf("Fetch() = %+v", res)
	}
}

type stubProvider struct {
	name  string
	res   Result
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(context.Context, Query) Result {
	s.calls++
	res := s.res
	res.Provider = s.name
	return res
}

func TestFetchAllPrecedence(t *testing.T) {
	a := &stubProvider{name: "a", res: found("a", []string{"from a"})}
	b := &stubProvider{name: "b", res: found("b", []string{"from b"})}

	f := &Fetcher{Providers: []Provider{a, b}}
	got := f.FetchAll(context.Background(), nightOwl)
	if len(got) != 2 || got[0].Provider != "a" || got[1].Provider != "b" {
		t.Fatalf("FetchAll() = %+v", got)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("expected every provider to be asked once, got a=%d b=%d", a.calls, b.calls)
	}
}

func TestFetchAllBlankBodyIsMiss(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/mip", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "\n")
	})
	mux.HandleFunc("/ovh/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"lyrics": "Verse one"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := &Fetcher{Providers: []Provider{
		&MakeItPersonal{Endpoint: srv.URL + "/mip", Client: srv.Client()},
		&LyricsOVH{Endpoint: srv.URL + "/ovh", Client: srv.Client()},
	}}
	got := f.FetchAll(context.Background(), nightOwl)
	if len(got) != 1 || got[0].Provider != LyricsOVHName {
		t.Fatalf("FetchAll() = %+v, want only lyricsovh", got)
	}
	if want := []string{"Verse one"}; !reflect.DeepEqual(got[0].Lines, want) {
		t.Fatalf("lines = %q, want %q", got[0].Lines, want)
	}

	for _, lines := range [][]string{nil, {""}, {"", "  ", "\t"}} {
		if res := found("a", lines); res.Found {
			t.Fatalf("found(%q) = %+v, want a miss", lines, res)
		}
	}
}

func TestFetchAllSkipsMisses(t *testing.T) {
	a := &stubProvider{name: "a", res: failed("a", "song not found")}
	b := &stubProvider{name: "b", res: found("b", []string{"from b"})}

	f := &Fetcher{Providers: []Provider{a, b}}
	got := f.FetchAll(context.Background(), nightOwl)
	if len(got) != 1 || got[0].Lines[0] != "from b" {
		t.Fatalf("FetchAll() = %+v", got)
	}

	b.res = failed("b", "boom")
	if got := f.FetchAll(context.Background(), nightOwl); len(got) != 0 {
		t.Fatalf("FetchAll() = %+v, want none", got)
	}
}

type upperConverter struct{}

func (upperConverter) Convert(in string) (string, error) {
	if in == "bad" {
		return "", errors.New("cannot convert")
	}
	return strings.ToUpper(in), nil
}

func TestFetchAllConverts(t *testing.T) {
	a := &stubProvider{name: "a", res: found("a", []string{"verse", "bad"})}
	f := &Fetcher{Providers: []Provider{a}, Converter: upperConverter{}}

	got := f.FetchAll(context.Background(), nightOwl)
	if want := []string{"VERSE", "bad"}; len(got) != 1 || !reflect.DeepEqual(got[0].Lines, want) {
		t.Fatalf("FetchAll() = %+v, want lines %q", got, want)
	}
}

func TestNew(t *testing.T) {
	providers, err := New(nil, Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	if len(providers) != 2 || providers[0].Name() != MakeItPersonalName || providers[1].Name() != LyricsOVHName {
		t.Fatalf("New() default order wrong: %v", providers)
	}

	providers, err = New([]string{"lrclib", " Genius "}, Options{})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	if providers[0].Name() != LRCLibName || providers[1].Name() != GeniusName {
		t.Fatalf("New() order wrong: %v", providers)
	}

	if _, err := New([]string{"azlyrics"}, Options{}); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("New() error = %v, want ErrUnknownProvider", err)
	}
}
