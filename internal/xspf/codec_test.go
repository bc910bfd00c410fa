package xspf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/handiism/xspf-curator/internal/errors"
	"github.com/handiism/xspf-curator/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_RoadTrip(t *testing.T) {
	dir := t.TempDir()
	p := model.NewPlaylist("Road Trip", []model.Track{model.NewTrack(`C:\Music\song.mp3`)})

	written, err := Write(filepath.Join(dir, "road-trip"), p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "road-trip.xspf"), written)

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, Header), "file must start with the declaration")
	assert.False(t, strings.HasPrefix(content, Header+"\n"), "no blank line after the declaration")
	assert.True(t, strings.HasPrefix(content, Header+"<playlist"))
	assert.Contains(t, content, `xmlns="http://xspf.org/ns/0/"`)
	assert.Contains(t, content, `xmlns:vlc="http://www.videolan.org/vlc/playlist/ns/0/"`)
	assert.Contains(t, content, "<title>Road Trip</title>")
	assert.Contains(t, content, "<location>file:///C:/Music/song.mp3</location>")
	assert.Contains(t, content, "<title>song</title>")

	_, err = os.Stat(written + TempSuffix)
	assert.True(t, os.IsNotExist(err), "temporary file must be removed")
}

func TestWrite_MatchesMarshal(t *testing.T) {
	dir := t.TempDir()
	p := model.NewPlaylist("Mix", []model.Track{
		model.NewTrack("/music/a.mp3"),
		model.NewTrack("/music/B & C/<odd>.flac"),
	})

	written, err := Write(filepath.Join(dir, "mix.xspf"), p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mix.xspf"), written)

	onDisk, err := os.ReadFile(written)
	require.NoError(t, err)
	inMemory, err := Marshal(p)
	require.NoError(t, err)

	assert.Equal(t, inMemory, onDisk)
}

func TestWrite_MissingParent(t *testing.T) {
	_, err := Write(filepath.Join(t.TempDir(), "nope", "list.xspf"), model.NewPlaylist("x", nil))
	assert.True(t, apperrors.IsValidation(err))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		tracks []model.Track
	}{
		{"empty", nil},
		{"single", []model.Track{model.NewTrack("/music/Song.Name.mp3")}},
		{"ordered", []model.Track{
			model.NewTrack("/music/z.mp3"),
			model.NewTrack("/music/a.mp3"),
			model.NewTrack("/music/README"),
			model.NewTrack(`D:\Audio\Disc 1\01 - Intro.ogg`),
		}},
		{"path-less", []model.Track{
			model.TrackFromLocation("http://radio.example/stream", "Radio"),
			model.NewTrack("/music/a.mp3"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			p := model.NewPlaylist("Title "+tt.name, tt.tracks)

			written, err := Write(filepath.Join(dir, "list"), p)
			require.NoError(t, err)

			loaded, err := Load(written)
			require.NoError(t, err)

			assert.Equal(t, p.Title, loaded.Title)
			assert.Equal(t, p.Version, loaded.Version)
			require.Len(t, loaded.Tracks, len(tt.tracks))
			for i, want := range tt.tracks {
				got := loaded.Tracks[i]
				assert.Equal(t, want.Location, got.Location)
				assert.Equal(t, want.Title, got.Title)
				assert.True(t, want.Equal(got))
			}
		})
	}
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.True(t, apperrors.IsValidation(err))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.xspf"))
	assert.True(t, apperrors.IsValidation(err))
}

func TestUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code string
	}{
		{"empty", "", apperrors.CodeParse},
		{"malformed", Header + "<playlist><title>x</title><trackList>", apperrors.CodeParse},
		{"wrong root", Header + "<smil><title>x</title></smil>", apperrors.CodeFormat},
		{"no title", Header + "<playlist><trackList></trackList></playlist>", apperrors.CodeFormat},
		{"no trackList", Header + "<playlist><title>x</title></playlist>", apperrors.CodeFormat},
		{"track without location", Header + "<playlist><title>x</title><trackList><track><title>t</title></track></trackList></playlist>", apperrors.CodeFormat},
		{"track without title", Header + "<playlist><title>x</title><trackList><track><location>file:///a</location></track></trackList></playlist>", apperrors.CodeFormat},
		{"text after root", Header + "<playlist><title>x</title><trackList></trackList></playlist>garbage<<<", apperrors.CodeParse},
		{"second root", Header + "<playlist><title>x</title><trackList></trackList></playlist><playlist/>", apperrors.CodeParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Unmarshal([]byte(tt.doc))
			assert.Nil(t, p)
			require.Error(t, err)
			assert.True(t, apperrors.IsFormat(err))

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestUnmarshal_TrailingWhitespaceAndComment(t *testing.T) {
	doc := Header + "<playlist><title>x</title><trackList></trackList></playlist>\n<!-- saved by vlc -->\n"

	p, err := Unmarshal([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "x", p.Title)
	assert.Empty(t, p.Tracks)
}

func TestUnmarshal_VLCDocument(t *testing.T) {
	doc := Header + `<playlist xmlns="http://xspf.org/ns/0/" xmlns:vlc="http://www.videolan.org/vlc/playlist/ns/0/" version="1">
	<title>Playlist</title>
	<trackList>
		<track>
			<location>file:///home/user/Music/01%20Song.mp3</location>
			<title>01 Song</title>
			<extension application="http://www.videolan.org/vlc/playlist/0"><vlc:id>0</vlc:id></extension>
		</track>
	</trackList>
</playlist>`

	p, err := Unmarshal([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "Playlist", p.Title)
	assert.Equal(t, 1, p.Version)
	require.Len(t, p.Tracks, 1)
	assert.Equal(t, "home/user/Music/01%20Song.mp3", p.Tracks[0].Path)
	assert.Equal(t, "01 Song", p.Tracks[0].Title)
}
