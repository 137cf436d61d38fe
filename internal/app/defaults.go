package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults holds the default locations used when no flags override them.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - FILESERVER_CONFIG_PATH: config file location (default: ~/.config/fileserver.toml)
//   - FILESERVER_HOME: base directory for fileserver data (default: ~/.local/share/fileserver)
func GetDefaults() (*Defaults, error) {
	configPath, err := fromEnvOrHome("FILESERVER_CONFIG_PATH", ".config", "fileserver.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := fromEnvOrHome("FILESERVER_HOME", ".local", "share", "fileserver")
	if err != nil {
		return nil, err
	}

	return &Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}

// fromEnvOrHome returns the value of env if set, otherwise the path elems
// joined under the user's home directory.
func fromEnvOrHome(env string, elems ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elems...)...), nil
}
