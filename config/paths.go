package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "tessa"

// GetConfigDir returns the platform-specific configuration directory
// Linux/Mac: ~/.config/tessa
// Windows: C:\Users\username\.config\tessa
func GetConfigDir() string {
	return filepath.Join(GetHomeDir(), ".config", appName)
}

// GetCacheDir returns the cache directory. Review temp files live here so
// they never land in a synced data directory.
func GetCacheDir() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(GetHomeDir(), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName)
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return filepath.Join(GetHomeDir(), ".cache", appName)
}

func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), "settings.toml")
}

func GetHomeDir() string {
	if runtime.GOOS == "windows" {
		home := os.Getenv("USERPROFILE")
		if home == "" {
			home = os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
		}
		if home == "" {
			home = "C:\\"
		}
		return home
	}
	home := os.Getenv("HOME")
	if home == "" {
		home = "/"
	}
	return home
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		return GetHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(GetHomeDir(), path[2:])
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates a directory if it doesn't exist (0700)
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetTempDir is where file-update review copies are written.
func GetTempDir() string {
	if dir := os.Getenv("TESSA_TEMP_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(GetCacheDir(), "tmp")
}

func CreateTempDir() error {
	return EnsureDir(GetTempDir())
}

// CleanupTempDir removes review copies left behind, including those of a
// previous run that crashed mid-review.
func CleanupTempDir() error {
	dir := GetTempDir()
	if !FileExists(dir) {
		return nil
	}
	return os.RemoveAll(dir)
}

func EnsureDataDirPermissions(dataDir string) error {
	info, err := os.Stat(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return EnsureDir(dataDir)
		}
		return err
	}
	if info.Mode().Perm() != 0700 {
		return os.Chmod(dataDir, 0700)
	}
	return nil
}
