package config

import (
	"os"
	"path/filepath"
)

// appDirName is the directory under the user config dir holding the config
// file and token file.
const appDirName = "drivewiki"

// DefaultConfigPath returns the default config file location,
// e.g. ~/.config/drivewiki/config.toml on Linux.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.toml")
}

// DefaultTokenPath returns the default OAuth token file location.
func DefaultTokenPath() string {
	return filepath.Join(configDir(), "token.json")
}

func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		// No resolvable home directory; fall back to the working directory.
		return appDirName
	}

	return filepath.Join(base, appDirName)
}
