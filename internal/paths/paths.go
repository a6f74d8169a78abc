package paths

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.lmekki.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lmekki")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the log file for the named binary.
func LogPath(binary string) string {
	return filepath.Join(LogDir(), binary+".log")
}

// ImageDir returns where saved generated images go by default.
func ImageDir() string {
	return filepath.Join(BaseDir(), "images")
}

// EnsureDir creates the base directory tree with owner-only permissions.
func EnsureDir() error {
	for _, d := range []string{BaseDir(), LogDir()} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
