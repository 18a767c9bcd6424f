package player

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultCmusRemote is the query command shipped with cmus.
const DefaultCmusRemote = "cmus-remote"

// Tags is the parsed form of cmus-remote -Q output. Missing keys are empty.
type Tags struct {
	Status   string
	File     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// Parse reads line-oriented "<key> <value...>" output. cmus prefixes
// metadata with "tag", so "tag title Foo" and "title Foo" are equivalent.
// The first occurrence of a key wins; unknown keys and short lines are skipped.
func Parse(output string) Tags {
	var t Tags
	seen := make(map[string]bool)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		key, value, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		if key == "tag" {
			if key, value, ok = strings.Cut(value, " "); !ok {
				continue
			}
		}
		if seen[key] {
			continue
		}
		switch key {
		case "status":
			t.Status = value
		case "file":
			t.File = value
		case "title":
			t.Title = value
		case "artist":
			t.Artist = value
		case "album":
			t.Album = value
		case "duration":
			if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
				t.Duration = time.Duration(secs) * time.Second
			}
		default:
			continue
		}
		seen[key] = true
	}
	return t
}

// CmusProbe asks a running cmus instance what it is playing.
type CmusProbe struct {
	// Command is the cmus-remote binary; DefaultCmusRemote when empty.
	Command string
	// ReadFileTags enables reading embedded tags from the playing file
	// when cmus reports no title.
	ReadFileTags bool
}

func (p *CmusProbe) Name() string { return "CMUS" }

// Probe runs "cmus-remote -Q". Empty output means cmus is not running.
func (p *CmusProbe) Probe(ctx context.Context) (TrackIdentity, error) {
	command := p.Command
	if command == "" {
		command = DefaultCmusRemote
	}
	out, err := exec.CommandContext(ctx, command, "-Q").Output()
	if len(out) == 0 {
		var exitErr *exec.ExitError
		if err == nil || errors.As(err, &exitErr) {
			return TrackIdentity{}, ErrNotRunning
		}
		return TrackIdentity{}, fmt.Errorf("cmus-remote: %w", err)
	}
	return p.identity(Parse(string(out))), nil
}

func (p *CmusProbe) identity(t Tags) TrackIdentity {
	title, artist := t.Title, t.Artist
	if title == "" && p.ReadFileTags {
		title, artist = fileTags(t.File, artist)
	}
	if title == "" {
		title = TitleFromPath(t.File)
	}
	id := NewIdentity(title, artist)
	id.Album = t.Album
	id.File = t.File
	id.Status = t.Status
	id.Duration = t.Duration
	return id
}
