// Package output renders albums and playlists for the command line.
package output
