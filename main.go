package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/best8oy/LyricsCMUS/logutil"
	"github.com/best8oy/LyricsCMUS/lyrics"
	"github.com/best8oy/LyricsCMUS/mpris"
	"github.com/best8oy/LyricsCMUS/player"
	"github.com/best8oy/LyricsCMUS/pool"
	"github.com/best8oy/LyricsCMUS/state"
	"github.com/best8oy/LyricsCMUS/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/liuzl/gocc"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Config holds application settings.
type Config struct {
	Source       string
	CmusRemote   string
	MprisService string
	Providers    []string
	Endpoints    lyrics.Options
	PollInterval time.Duration
	Pipe         bool
	LogFile      string
	Verbose      bool
	ClearOnStop  bool
	ReadFileTags bool
	T2S          bool
}

var cfg = Config{
	Source:       "cmus",
	CmusRemote:   player.DefaultCmusRemote,
	Providers:    lyrics.DefaultProviders,
	PollInterval: pool.DefaultInterval,
	LogFile:      logutil.DefaultPath,
	Endpoints:    lyrics.Options{Timeout: 10 * time.Second},
}

var rootCmd = &cobra.Command{
	Use:           "cmus-lyrics",
	Short:         "show lyrics for the song playing in cmus",
	Long:          `cmus-lyrics watches the track playing in cmus and shows its lyrics in a scrollable terminal view.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), cfg)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&cfg.Source, "source", cfg.Source, "where to read the playing track from: cmus or mpris")
	f.StringVar(&cfg.CmusRemote, "cmus-remote", cfg.CmusRemote, "cmus-remote binary used to query cmus")
	f.StringVar(&cfg.MprisService, "mpris-service", "", "MPRIS bus name to follow (default: first player found)")
	f.StringSliceVar(&cfg.Providers, "providers", cfg.Providers, "lyrics providers in priority order (makeitpersonal, lyricsovh, lrclib, genius)")
	f.StringVar(&cfg.Endpoints.MakeItPersonalURL, "makeitpersonal-url", lyrics.DefaultMakeItPersonalURL, "makeitpersonal endpoint")
	f.StringVar(&cfg.Endpoints.LyricsOVHURL, "lyricsovh-url", lyrics.DefaultLyricsOVHURL, "lyrics.ovh endpoint")
	f.StringVar(&cfg.Endpoints.LRCLibURL, "lrclib-url", lyrics.DefaultLRCLibURL, "lrclib endpoint")
	f.StringVar(&cfg.Endpoints.GeniusURL, "genius-url", lyrics.DefaultGeniusURL, "genius endpoint")
	f.DurationVar(&cfg.Endpoints.Timeout, "timeout", cfg.Endpoints.Timeout, "timeout for each lyrics request (0 disables)")
	f.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "pause between two player polls")
	f.BoolVar(&cfg.Pipe, "pipe", false, "print lyrics to stdout instead of the full-screen view (implied when stdout is not a terminal)")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "diagnostic log file, appended to")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "write debug messages to the log file")
	f.BoolVar(&cfg.ClearOnStop, "clear-on-stop", false, "clear the lyrics when the player stops")
	f.BoolVar(&cfg.ReadFileTags, "read-file-tags", false, "read tags from the playing file when cmus reports no title")
	f.BoolVar(&cfg.T2S, "t2s", false, "convert Traditional Chinese lyrics to Simplified")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) error {
	log, closer, err := logutil.Open(cfg.LogFile, cfg.Verbose)
	if err != nil {
		return err
	}
	defer closer.Close()

	probe, err := newProbe(cfg)
	if err != nil {
		return err
	}
	if c, ok := probe.(io.Closer); ok {
		defer c.Close()
	}
	providers, err := lyrics.New(cfg.Providers, cfg.Endpoints)
	if err != nil {
		return err
	}
	fetcher := &lyrics.Fetcher{Providers: providers, Log: log}
	if cfg.T2S {
		conv, err := gocc.New("t2s")
		if err != nil {
			return fmt.Errorf("initializing t2s converter: %w", err)
		}
		fetcher.Converter = conv
	}

	store := state.New()
	poller := &pool.Poller{
		Probe:       probe,
		Fetcher:     fetcher,
		Store:       store,
		Interval:    cfg.PollInterval,
		ClearOnStop: cfg.ClearOnStop,
		Log:         log,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	log.WithFields(logrus.Fields{"source": cfg.Source, "providers": cfg.Providers}).Debug("starting")

	if cfg.Pipe || !ui.IsTerminal(os.Stdout) {
		return runPipe(ctx, cancel, poller, store, log)
	}
	return runUI(ctx, cancel, poller, store, log)
}

func newProbe(cfg Config) (player.Prober, error) {
	switch cfg.Source {
	case "cmus":
		if _, err := exec.LookPath(cfg.CmusRemote); err != nil {
			return nil, fmt.Errorf("%s not found; is cmus installed? (%w)", cfg.CmusRemote, err)
		}
		return &player.CmusProbe{Command: cfg.CmusRemote, ReadFileTags: cfg.ReadFileTags}, nil
	case "mpris":
		return mpris.NewProbe(cfg.MprisService), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want cmus or mpris)", cfg.Source)
	}
}

// runUI runs the poller in the background and the terminal UI in front. A
// poller failure is logged and closes the UI; quitting the UI stops the poller.
func runUI(ctx context.Context, cancel context.CancelFunc, poller *pool.Poller, store *state.Store, log logrus.FieldLogger) error {
	p := tea.NewProgram(ui.New(store), tea.WithAltScreen(), tea.WithContext(ctx))

	pollErr := make(chan error, 1)
	go func() {
		err := poller.Run(ctx)
		if err != nil {
			log.WithError(err).Error("poll failed, shutting down")
			p.Send(ui.FatalMsg{Err: err})
		}
		pollErr <- err
	}()

	_, uiErr := p.Run()
	cancel()
	err := <-pollErr
	if err != nil {
		return err
	}
	if uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) && !errors.Is(uiErr, context.Canceled) {
		return fmt.Errorf("running ui: %w", uiErr)
	}
	return nil
}

func runPipe(ctx context.Context, cancel context.CancelFunc, poller *pool.Poller, store *state.Store, log logrus.FieldLogger) error {
	pipeErr := make(chan error, 1)
	go func() { pipeErr <- ui.PipeMode(ctx, store, os.Stdout) }()

	err := poller.Run(ctx)
	if err != nil {
		log.WithError(err).Error("poll failed, shutting down")
	}
	cancel()
	if perr := <-pipeErr; err == nil {
		err = perr
	}
	return err
}
