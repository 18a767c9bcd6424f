package player

import (
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// fileTags reads title and artist embedded in path. The given artist is kept
// when already known. Unreadable files yield an empty title.
func fileTags(path, artist string) (string, string) {
	if path == "" {
		return "", artist
	}
	f, err := os.Open(path)
	if err != nil {
		return "", artist
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return "", artist
	}
	if artist == "" {
		artist = strings.TrimSpace(m.Artist())
	}
	return strings.TrimSpace(m.Title()), artist
}
