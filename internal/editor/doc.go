// Package editor holds the in-progress outgoing message and its edit cursor.
package editor
