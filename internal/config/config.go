// Package config implements TOML configuration loading, validation, and
// environment overrides for drivewiki. The override chain is
// defaults -> config file -> environment variables; CLI flags are applied by
// the command layer on top of the resolved config.
package config

// Drive mode constants. Team mode addresses a shared/team drive through the
// corpora and teamDriveId request parameters; shared mode (the default)
// omits them.
const (
	ModeTeam   = "team"
	ModeShared = "shared"
)

// Page cache backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	Drive   DriveConfig   `toml:"drive"`
	Auth    AuthConfig    `toml:"auth"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
}

// DriveConfig identifies the remote container the site is rooted at and how
// the Drive API is addressed.
type DriveConfig struct {
	// RootFolderID is the Drive folder id the site tree is rooted at.
	// Every resolved path is relative to this container.
	RootFolderID string `toml:"root_folder_id"`
	// RootName is the human-readable label shown for the root in the
	// folder tree.
	RootName string `toml:"root_name"`
	// TeamDriveID is the shared drive id, required when mode is "team".
	TeamDriveID string `toml:"team_drive_id"`
	// Mode is "team" or "shared". Empty means shared.
	Mode string `toml:"mode"`
}

// AuthConfig holds OAuth2 client credentials and the token file location.
type AuthConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	TokenFile    string `toml:"token_file"`
}

// CacheConfig selects the rendered-page cache backend.
type CacheConfig struct {
	// Backend is "sqlite" (persistent, default) or "memory" (bounded LRU).
	Backend string `toml:"backend"`
	// MaxEntries bounds the memory backend. Ignored for sqlite.
	MaxEntries int `toml:"max_entries"`
	// DBPath is the sqlite database file, shared with the metadata mirror.
	DBPath string `toml:"db_path"`
}

// ServerConfig controls the glue HTTP surface exposed by the serve command.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// Format is "text", "json", or "" (auto: text on a TTY, json otherwise).
	Format string `toml:"format"`
}

// Default values applied before the config file is read.
const (
	defaultRootName   = "Library"
	defaultBackend    = BackendSQLite
	defaultMaxEntries = 1024
	defaultDBPath     = "drivewiki.db"
	defaultListen     = ":8080"
	defaultLogLevel   = "info"
)

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Drive: DriveConfig{
			RootName: defaultRootName,
			Mode:     ModeShared,
		},
		Cache: CacheConfig{
			Backend:    defaultBackend,
			MaxEntries: defaultMaxEntries,
			DBPath:     defaultDBPath,
		},
		Server: ServerConfig{
			Listen: defaultListen,
		},
		Logging: LoggingConfig{
			Level: defaultLogLevel,
		},
	}
}
