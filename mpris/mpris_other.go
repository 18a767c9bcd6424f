//go:build !linux
// +build !linux

package mpris

import (
	"context"
	"errors"

	"github.com/best8oy/LyricsCMUS/player"
)

var errUnsupported = errors.New("mpris: only supported on linux")

// Probe is unavailable outside linux; every probe fails.
type Probe struct {
	Service string
}

func NewProbe(service string) *Probe {
	return &Probe{Service: service}
}

func (p *Probe) Name() string { return "Player" }

func (p *Probe) Probe(context.Context) (player.TrackIdentity, error) {
	return player.TrackIdentity{}, errUnsupported
}

func (p *Probe) Close() error { return nil }
