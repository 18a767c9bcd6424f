//go:build linux
// +build linux

package mpris

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/best8oy/LyricsCMUS/player"
	"github.com/godbus/dbus/v5"
)

const (
	busPrefix   = "org.mpris.MediaPlayer2."
	objectPath  = "/org/mpris/MediaPlayer2"
	playerIface = "org.mpris.MediaPlayer2.Player"
)

// Probe reads the now-playing track from an MPRIS player on the session bus.
type Probe struct {
	// Service is the bus name to query; the first MPRIS player when empty.
	Service string

	mu   sync.Mutex
	conn *dbus.Conn
}

func NewProbe(service string) *Probe {
	return &Probe{Service: service}
}

func (p *Probe) Name() string { return "Player" }

// Probe returns player.ErrNotRunning when no MPRIS player is on the bus.
func (p *Probe) Probe(ctx context.Context) (player.TrackIdentity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.connect()
	if err != nil {
		return player.TrackIdentity{}, err
	}
	name, err := p.activePlayer(ctx, conn)
	if err != nil {
		return player.TrackIdentity{}, err
	}

	obj := conn.Object(name, objectPath)
	variant, err := obj.GetProperty(playerIface + ".Metadata")
	if err != nil {
		// The player may have quit between ListNames and here.
		return player.TrackIdentity{}, player.ErrNotRunning
	}
	metadata, ok := variant.Value().(map[string]dbus.Variant)
	if !ok {
		return player.TrackIdentity{}, fmt.Errorf("metadata type assertion failed for %s", name)
	}
	var status string
	if v, err := obj.GetProperty(playerIface + ".PlaybackStatus"); err == nil {
		status, _ = v.Value().(string)
	}
	if len(metadata) == 0 {
		return player.TrackIdentity{}, player.ErrNotRunning
	}
	return identityFromMetadata(metadata, strings.ToLower(status)), nil
}

// Close releases the bus connection.
func (p *Probe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

func (p *Probe) connect() (*dbus.Conn, error) {
	if p.conn != nil && p.conn.Connected() {
		return p.conn, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	p.conn = conn
	return conn, nil
}

// activePlayer returns the configured service or the first MPRIS player name.
func (p *Probe) activePlayer(ctx context.Context, conn *dbus.Conn) (string, error) {
	var names []string
	err := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return "", fmt.Errorf("listing bus names: %w", err)
	}
	for _, name := range names {
		if p.Service != "" && name == p.Service {
			return name, nil
		}
		if p.Service == "" && strings.HasPrefix(name, busPrefix) {
			return name, nil
		}
	}
	return "", player.ErrNotRunning
}
