package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/best8oy/LyricsCMUS/logutil"
	"github.com/best8oy/LyricsCMUS/lyrics"
	"github.com/best8oy/LyricsCMUS/player"
	"github.com/best8oy/LyricsCMUS/state"
	"github.com/sirupsen/logrus"
)

// DefaultInterval is the fixed pause between two polls.
const DefaultInterval = time.Second

// ScrollHint is shown in the status bar while lyrics are displayed.
const ScrollHint = "PRESS [UP ARROW] OR [DOWN ARROW] TO SCROLL THROUGH LYRICS"

// Phase is the poller's position in its poll/fetch/display cycle.
type Phase int

const (
	Idle Phase = iota
	Polling
	Fetching
	Displaying
	PlayerStopped
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Polling:
		return "polling"
	case Fetching:
		return "fetching"
	case Displaying:
		return "displaying"
	case PlayerStopped:
		return "player-stopped"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Fetcher returns the lyrics found for a track, best first.
type Fetcher interface {
	FetchAll(ctx context.Context, q lyrics.Query) []lyrics.Result
}

// Poller watches the player and publishes lyrics for every new track.
type Poller struct {
	Probe    player.Prober
	Fetcher  Fetcher
	Store    *state.Store
	Interval time.Duration
	// ClearOnStop empties the lyrics body when the player goes away.
	ClearOnStop bool
	Log         logrus.FieldLogger

	mu      sync.Mutex
	phase   Phase
	last    player.TrackIdentity
	hasLast bool
}

// Phase reports where the poller currently is.
func (p *Poller) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

func (p *Poller) setPhase(ph Phase) {
	p.mu.Lock()
	p.phase = ph
	p.mu.Unlock()
	p.logger().WithField("phase", ph).Debug("phase change")
}

// Run polls until ctx is done or a poll fails unexpectedly. A failed poll
// ends the loop with its error; the caller decides how to shut down.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
		if err := p.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		timer.Reset(interval)
	}
}

// Tick runs one poll. Panics are recovered and returned as errors.
func (p *Poller) Tick(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("poll panicked: %v\n%s", r, debug.Stack())
		}
	}()

	p.setPhase(Polling)
	id, err := p.Probe.Probe(ctx)
	if errors.Is(err, player.ErrNotRunning) {
		p.mu.Lock()
		p.hasLast = false
		p.mu.Unlock()
		p.setPhase(PlayerStopped)
		title := p.Probe.Name() + " is not running."
		if p.ClearOnStop {
			p.Store.Publish(title, nil, "")
		} else {
			p.Store.SetHeader(title, "")
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("probe %s: %w", p.Probe.Name(), err)
	}

	p.mu.Lock()
	same := p.hasLast && p.last.SameTrack(id)
	p.last, p.hasLast = id, true
	p.mu.Unlock()
	if same {
		return nil
	}

	log := p.logger().WithField("track", id.Artist+" - "+id.Title)
	log.WithField("fingerprint", id.Fingerprint).Info("track changed")

	var found []lyrics.Result
	if id.Title != "" || id.Artist != "" {
		p.setPhase(Fetching)
		p.Store.Publish("Fetching lyrics for "+id.Title, nil, "")
		found = p.Fetcher.FetchAll(ctx, lyrics.Query{
			Title:    id.Title,
			Artist:   id.Artist,
			Album:    id.Album,
			Duration: id.Duration,
		})
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	p.setPhase(Displaying)
	if len(found) == 0 {
		log.Info("no lyrics found")
		p.Store.Publish("No lyrics found for "+id.Title, nil, "")
	} else {
		log.WithField("provider", found[0].Provider).Infof("showing %d lines", len(found[0].Lines))
		p.Store.Publish(id.Title+" by "+id.Artist, found[0].Lines, ScrollHint)
	}
	p.setPhase(Polling)
	return nil
}

func (p *Poller) logger() logrus.FieldLogger {
	if p.Log == nil {
		p.Log = logutil.Discard()
	}
	return p.Log
}
