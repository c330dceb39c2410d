package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "gzh-wt"

// UserConfigPath returns the path to the user config file, honoring
// $XDG_CONFIG_HOME (or the platform equivalent) before falling back to
// $HOME/.config. Returns ("", false) only if no usable home directory can
// be determined at all.
func UserConfigPath() (string, bool) {
	dir, ok := configDir()
	if !ok {
		return "", false
	}
	return filepath.Join(dir, appDirName, "config.toml"), true
}

// UserCacheDir returns the base cache directory for this tool, honoring
// $XDG_CACHE_HOME (or the platform equivalent).
func UserCacheDir() (string, bool) {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return filepath.Join(v, appDirName), true
	}
	switch runtime.GOOS {
	case "windows":
		if v := os.Getenv("LOCALAPPDATA"); v != "" {
			return filepath.Join(v, appDirName, "cache"), true
		}
	case "darwin":
		if home := homeDir(); home != "" {
			return filepath.Join(home, "Library", "Caches", appDirName), true
		}
	}
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".cache", appDirName), true
	}
	return "", false
}

func configDir() (string, bool) {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v, true
	}
	switch runtime.GOOS {
	case "windows":
		if v := os.Getenv("APPDATA"); v != "" {
			return v, true
		}
	case "darwin":
		if home := homeDir(); home != "" {
			return filepath.Join(home, "Library", "Application Support"), true
		}
	}
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".config"), true
	}
	return "", false
}

func homeDir() string {
	if v := os.Getenv("HOME"); v != "" {
		return v
	}
	if v := os.Getenv("USERPROFILE"); v != "" {
		return v
	}
	return ""
}

// lockPath returns the sibling ".toml.lock" path used to coordinate
// cross-process read-modify-write cycles on a TOML config file.
func lockPath(configPath string) string {
	ext := filepath.Ext(configPath)
	return configPath[:len(configPath)-len(ext)] + ".toml.lock"
}
