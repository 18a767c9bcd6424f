package player

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotRunning is returned by a Prober when no player is there to ask.
var ErrNotRunning = errors.New("player not running")

// Prober reports what the music player is currently playing.
type Prober interface {
	// Name is the human-readable player name used in status messages.
	Name() string
	Probe(ctx context.Context) (TrackIdentity, error)
}

// Fingerprint identifies a track by title and artist. It is only ever
// compared for equality.
type Fingerprint [md5.Size]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// TrackIdentity holds the now-playing song info.
type TrackIdentity struct {
	Title       string
	Artist      string
	Album       string
	File        string
	Status      string
	Duration    time.Duration
	Fingerprint Fingerprint
}

// fingerprintSep cannot occur in tag values, so no title/artist pair can
// collide with another by moving text across the boundary.
const fingerprintSep = "\x00"

// NewIdentity builds an identity for title and artist with its fingerprint set.
func NewIdentity(title, artist string) TrackIdentity {
	return TrackIdentity{
		Title:       title,
		Artist:      artist,
		Fingerprint: Fingerprint(md5.Sum([]byte(title + fingerprintSep + artist))),
	}
}

// SameTrack reports whether both identities carry the same fingerprint.
func (t TrackIdentity) SameTrack(other TrackIdentity) bool {
	return t.Fingerprint == other.Fingerprint
}

// TitleFromPath derives a title from a file path or URL: the base name
// without directory and extension.
func TitleFromPath(path string) string {
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" && u.Path != "" {
		path = u.Path
	}
	base := filepath.Base(path)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
