package xspf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	apperrors "github.com/handiism/xspf-curator/internal/errors"
	ioutils "github.com/handiism/xspf-curator/internal/io"
	"github.com/handiism/xspf-curator/internal/model"
)

const (
	// Namespace is the default namespace of the root element.
	Namespace = "http://xspf.org/ns/0/"

	// VLCNamespace is declared under the "vlc" prefix.
	VLCNamespace = "http://www.videolan.org/vlc/playlist/ns/0/"

	// Extension is appended to file names that lack it.
	Extension = ".xspf"

	// Header is written before the serialized document.
	Header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

	// TempSuffix names the intermediate file used by Write.
	TempSuffix = "-tempFile.temp"

	indent = "   "
)

type document struct {
	XMLName   xml.Name   `xml:"playlist"`
	Version   int        `xml:"version,attr"`
	Xmlns     string     `xml:"xmlns,attr"`
	XmlnsVLC  string     `xml:"xmlns:vlc,attr"`
	Title     *string    `xml:"title"`
	TrackList *trackList `xml:"trackList"`
}

type trackList struct {
	Tracks []track `xml:"track"`
}

type track struct {
	Location *string `xml:"location"`
	Title    *string `xml:"title"`
}

// Location returns the location string written for t: the file:/// form
// of its normalized path, or the stored location for path-less tracks.
func Location(t model.Track) string {
	if !t.HasPath() {
		return t.Location
	}
	return model.FilePrefix + model.NormalizePath(t.Path)
}

func newDocument(p *model.Playlist) *document {
	title := p.Title
	doc := &document{
		Version:   p.Version,
		Xmlns:     Namespace,
		XmlnsVLC:  VLCNamespace,
		Title:     &title,
		TrackList: &trackList{Tracks: make([]track, 0, len(p.Tracks))},
	}

	for _, t := range p.Tracks {
		location := Location(t)
		trackTitle := t.Title
		doc.TrackList.Tracks = append(doc.TrackList.Tracks, track{
			Location: &location,
			Title:    &trackTitle,
		})
	}

	return doc
}

// Encode writes the document body for p to w, without the declaration.
func Encode(w io.Writer, p *model.Playlist) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", indent)
	if err := enc.Encode(newDocument(p)); err != nil {
		return err
	}
	return enc.Close()
}

// Marshal returns the complete file contents for p: Header followed
// immediately by the body.
func Marshal(p *model.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	if err := Encode(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write saves p to location and returns the path actually written, which
// has Extension appended when location lacks it.
//
// The parent directory must exist. The file is produced in the two-phase
// sequence described in the package documentation.
func Write(location string, p *model.Playlist) (string, error) {
	final := ioutils.EnsureExtension(location, Extension)
	if err := ioutils.CheckParentDir(final); err != nil {
		return "", err
	}

	temp := final + TempSuffix
	if err := writeBody(temp, p); err != nil {
		return "", apperrors.NewFilesystemError("failed to serialize playlist", temp, err)
	}

	body, err := ioutils.ReadAndRemove(temp)
	if err != nil {
		return "", apperrors.NewFilesystemError("failed to read serialized playlist", temp, err)
	}

	if err := ioutils.WriteFile(final, []byte(Header)); err != nil {
		return "", apperrors.NewFilesystemError("failed to write playlist header", final, err)
	}
	if err := ioutils.AppendFile(final, body); err != nil {
		return "", apperrors.NewFilesystemError("failed to write playlist body", final, err)
	}

	return final, nil
}

func writeBody(path string, p *model.Playlist) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(f, p); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Load reads the playlist at location.
//
// location must be an existing regular file; otherwise a validation error
// is returned without reading anything.
func Load(location string) (*model.Playlist, error) {
	if err := ioutils.CheckRegularFile(location); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, apperrors.NewFilesystemError("failed to read playlist", location, err)
	}

	p, err := unmarshal(data, location)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Unmarshal parses a complete XSPF document.
func Unmarshal(data []byte) (*model.Playlist, error) {
	return unmarshal(data, "")
}

func unmarshal(data []byte, source string) (*model.Playlist, error) {
	var doc document
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, apperrors.NewParseError(source, err)
		}
		return nil, apperrors.NewFormatError(err.Error(), source)
	}
	if err := expectEnd(dec); err != nil {
		return nil, apperrors.NewParseError(source, err)
	}

	if doc.Title == nil {
		return nil, apperrors.NewFormatError("playlist has no title element", source)
	}
	if doc.TrackList == nil {
		return nil, apperrors.NewFormatError("playlist has no trackList element", source)
	}

	tracks := make([]model.Track, 0, len(doc.TrackList.Tracks))
	for i, t := range doc.TrackList.Tracks {
		if t.Location == nil {
			return nil, apperrors.NewFormatError(fmt.Sprintf("track %d has no location element", i+1), source)
		}
		if t.Title == nil {
			return nil, apperrors.NewFormatError(fmt.Sprintf("track %d has no title element", i+1), source)
		}
		tracks = append(tracks, model.TrackFromLocation(*t.Location, *t.Title))
	}

	return &model.Playlist{
		Title:   *doc.Title,
		Tracks:  tracks,
		Version: doc.Version,
	}, nil
}

// expectEnd consumes the rest of the input and fails on anything but
// whitespace, comments and processing instructions after the root element.
func expectEnd(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("unexpected text %q after root element", bytes.TrimSpace(t))
			}
		case xml.Comment, xml.ProcInst:
		default:
			return fmt.Errorf("unexpected %T after root element", tok)
		}
	}
}
