package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/handiism/xspf-curator/internal/model"
)

// TerminalFormatAsDim wraps text in the ANSI faint attribute.
func TerminalFormatAsDim(text string) string {
	return fmt.Sprintf("\x1B[2m%s\x1B[0m", text)
}

// TerminalFormatAsError wraps text in ANSI red.
func TerminalFormatAsError(text string) string {
	return fmt.Sprintf("\x1B[31m%s\x1B[0m", text)
}

// Plural picks singular when n is 1.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// WriteTrackList prints a numbered track listing. Locations are dimmed
// when escapes is set.
//
//	Road Trip (2 tracks)
//	  1. song     file:///music/song.mp3
//	  2. Radio    http://radio.example/stream
func WriteTrackList(w io.Writer, title string, tracks []model.Track, escapes bool) error {
	if _, err := fmt.Fprintf(w, "%s (%d %s)\n", title, len(tracks), Plural(len(tracks), "track", "tracks")); err != nil {
		return err
	}

	width := 0
	for _, t := range tracks {
		width = max(width, len(t.Title))
	}
	digits := len(fmt.Sprint(len(tracks)))

	for i, t := range tracks {
		location := t.Location
		if escapes {
			location = TerminalFormatAsDim(location)
		}
		line := fmt.Sprintf("  %*d. %-*s  %s", digits, i+1, width, t.Title, location)
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// WriteAlbumList prints one album key per line.
func WriteAlbumList(w io.Writer, albums []string) error {
	for _, album := range albums {
		if _, err := fmt.Fprintln(w, album); err != nil {
			return err
		}
	}
	return nil
}
