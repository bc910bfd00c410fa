// Package xspf reads and writes VLC's XSPF playlist files.
//
// # Document shape
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<playlist version="1" xmlns="http://xspf.org/ns/0/" xmlns:vlc="http://www.videolan.org/vlc/playlist/ns/0/">
//	   <title>Road Trip</title>
//	   <trackList>
//	      <track>
//	         <location>file:///C:/Music/song.mp3</location>
//	         <title>song</title>
//	      </track>
//	   </trackList>
//	</playlist>
//
// The vlc namespace is declared even though no element uses it.
//
// # Writing
//
// Write reproduces a two-phase sequence: the body is serialized to
// "<file>-tempFile.temp", read back into memory, the temporary file is
// deleted, and the final file is written as the XML declaration followed
// by the body. The steps are not atomic; a crash in between can leave a
// missing or truncated playlist, or a stray temporary file.
//
// # Loading
//
// Load refuses missing paths and directories before parsing. Tracks whose
// location lacks the file:/// prefix are kept with their strings intact
// but no file path. Anything other than whitespace or comments after the
// closing </playlist> makes the document malformed.
//
// XML 1.0 cannot carry most control characters. encoding/xml writes them
// as U+FFFD, so a path containing one does not survive a round trip and
// the reloaded track no longer equals the original.
package xspf
