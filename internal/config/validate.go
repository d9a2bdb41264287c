package config

import (
	"errors"
	"fmt"
)

// Valid enum values.
var (
	validModes    = map[string]bool{ModeTeam: true, ModeShared: true, "": true}
	validBackends = map[string]bool{BackendSQLite: true, BackendMemory: true}
	validLevels   = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats  = map[string]bool{"text": true, "json": true, "": true}
)

// Validate checks a Config for invalid or inconsistent values. It does not
// require a root folder id — commands that need one check for it themselves
// so that commands like "config show" work without it.
func Validate(cfg *Config) error {
	if !validModes[cfg.Drive.Mode] {
		return fmt.Errorf("drive.mode %q: must be %q or %q", cfg.Drive.Mode, ModeTeam, ModeShared)
	}

	if cfg.Drive.Mode == ModeTeam && cfg.Drive.TeamDriveID == "" {
		return errors.New("drive.mode \"team\" requires drive.team_drive_id")
	}

	if !validBackends[cfg.Cache.Backend] {
		return fmt.Errorf("cache.backend %q: must be \"sqlite\" or \"memory\"", cfg.Cache.Backend)
	}

	if cfg.Cache.Backend == BackendMemory && cfg.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries %d: must be positive for the memory backend", cfg.Cache.MaxEntries)
	}

	if cfg.Cache.Backend == BackendSQLite && cfg.Cache.DBPath == "" {
		return errors.New("cache.db_path must not be empty for the sqlite backend")
	}

	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level %q: must be debug, info, warn, or error", cfg.Logging.Level)
	}

	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format %q: must be \"text\" or \"json\"", cfg.Logging.Format)
	}

	return nil
}
