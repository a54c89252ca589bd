package config

import "time"

var AppVersion = "DEVELOPMENT"

const (
	AppName  = "zaparoo-launcher"
	LogFile  = "launcher.log"
	CfgFile  = "config.toml"
	AuthFile = "auth.toml"
	// GameDir is the leaf under the data dir that holds installed versions.
	// Kept separate from any other launcher's game directory.
	GameDir = "game"

	DefaultHTTPTimeout = 30 * time.Second
)
