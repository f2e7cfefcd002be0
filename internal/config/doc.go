// Package config loads and saves the mini client configuration.
//
// The file lives at $XDG_CONFIG_HOME/mini/config.yaml ($HOME/.config/mini
// when XDG_CONFIG_HOME is unset, %LOCALAPPDATA%\mini on Windows):
//
//	version: 1
//	nickname: program
//	server: ws://localhost:6667/ws
//	channels:
//	    - '#mini'
//	    - '#rust'
//	target: '#mini'
//	log_level: info
//
// A missing file is not an error: Load returns Default. Fields left empty in
// the file are filled from Default before validation. Save writes through a
// temporary file and a rename so a crash never leaves a truncated config.
package config
