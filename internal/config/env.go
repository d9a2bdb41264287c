package config

import "os"

// Environment variable names for overrides.
const (
	EnvConfig       = "DRIVEWIKI_CONFIG"
	EnvRootFolderID = "DRIVEWIKI_ROOT_FOLDER_ID"
	EnvTeamDriveID  = "DRIVEWIKI_TEAM_DRIVE_ID"
	EnvDriveMode    = "DRIVEWIKI_DRIVE_MODE"
	EnvTokenFile    = "DRIVEWIKI_TOKEN_FILE"
	EnvListen       = "DRIVEWIKI_LISTEN"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath   string // DRIVEWIKI_CONFIG: override config file path
	RootFolderID string // DRIVEWIKI_ROOT_FOLDER_ID: root container id
	TeamDriveID  string // DRIVEWIKI_TEAM_DRIVE_ID: shared drive id
	DriveMode    string // DRIVEWIKI_DRIVE_MODE: team or shared
	TokenFile    string // DRIVEWIKI_TOKEN_FILE: OAuth token file path
	Listen       string // DRIVEWIKI_LISTEN: serve listen address
}

// ReadEnvOverrides reads environment variables and returns any overrides found.
// This does not modify the Config; ApplyEnvOverrides applies the fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:   os.Getenv(EnvConfig),
		RootFolderID: os.Getenv(EnvRootFolderID),
		TeamDriveID:  os.Getenv(EnvTeamDriveID),
		DriveMode:    os.Getenv(EnvDriveMode),
		TokenFile:    os.Getenv(EnvTokenFile),
		Listen:       os.Getenv(EnvListen),
	}
}

// ApplyEnvOverrides copies every non-empty override onto the config.
func ApplyEnvOverrides(cfg *Config, env EnvOverrides) {
	if env.RootFolderID != "" {
		cfg.Drive.RootFolderID = env.RootFolderID
	}

	if env.TeamDriveID != "" {
		cfg.Drive.TeamDriveID = env.TeamDriveID
	}

	if env.DriveMode != "" {
		cfg.Drive.Mode = env.DriveMode
	}

	if env.TokenFile != "" {
		cfg.Auth.TokenFile = env.TokenFile
	}

	if env.Listen != "" {
		cfg.Server.Listen = env.Listen
	}
}
