package mpris

import (
	"time"

	"github.com/best8oy/LyricsCMUS/player"
	"github.com/godbus/dbus/v5"
)

// identityFromMetadata converts an MPRIS Metadata map into a track identity.
// A missing title is derived from xesam:url like a cmus file path.
func identityFromMetadata(metadata map[string]dbus.Variant, status string) player.TrackIdentity {
	title, _ := metadata["xesam:title"].Value().(string)
	u, _ := metadata["xesam:url"].Value().(string)
	if title == "" {
		title = player.TitleFromPath(u)
	}
	var artist string
	if arr, ok := metadata["xesam:artist"].Value().([]string); ok && len(arr) > 0 {
		artist = arr[0]
	} else if arr, ok := metadata["xesam:artist"].Value().([]interface{}); ok && len(arr) > 0 {
		if s, ok := arr[0].(string); ok {
			artist = s
		}
	} else if s, ok := metadata["xesam:artist"].Value().(string); ok {
		artist = s
	}
	album, _ := metadata["xesam:album"].Value().(string)

	var length time.Duration
	switch v := metadata["mpris:length"].Value().(type) {
	case int64:
		length = time.Duration(v) * time.Microsecond
	case uint64:
		length = time.Duration(v) * time.Microsecond
	}

	id := player.NewIdentity(title, artist)
	id.Album = album
	id.File = u
	id.Status = status
	id.Duration = length
	return id
}
