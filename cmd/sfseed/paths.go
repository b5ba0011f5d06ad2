// ABOUTME: Location and validation of the mock CRM database file.
// ABOUTME: Defaults to the platform data directory, falling back to the working directory.

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const fallbackDBPath = "./sfseed-mock.db"

// validateAndCleanDBPath rejects paths that would clobber something other
// than a database file.
func validateAndCleanDBPath(path string) (string, error) {
	cleanPath := filepath.Clean(strings.TrimSpace(path))

	if cleanPath == "" || cleanPath == "." || cleanPath == "/" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}
	if runtime.GOOS == "windows" && len(cleanPath) == 2 && cleanPath[1] == ':' {
		return "", fmt.Errorf("database path cannot be a bare drive letter")
	}
	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("database path cannot contain '..'")
	}

	lowerPath := strings.ToLower(cleanPath)
	for _, pattern := range []string{".git", ".env", "node_modules", "credentials", "secret"} {
		if strings.Contains(lowerPath, pattern) {
			return "", fmt.Errorf("database path cannot contain '%s'", pattern)
		}
	}

	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return "", fmt.Errorf("database path %s is a directory", cleanPath)
	}

	return cleanPath, nil
}

// getDefaultDBPath prefers an existing ./sfseed-mock.db, then
// $XDG_DATA_HOME/sfseed/mock.db (or the platform equivalent).
func getDefaultDBPath() string {
	if _, err := os.Stat(fallbackDBPath); err == nil {
		return fallbackDBPath
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil || homeDir == "" || homeDir == "/" {
			log.Printf("Warning: could not determine home directory (%q): %v, using %s", homeDir, err, fallbackDBPath)
			return fallbackDBPath
		}
		if runtime.GOOS == "windows" {
			dataHome = os.Getenv("LOCALAPPDATA")
			if dataHome == "" {
				dataHome = filepath.Join(homeDir, "AppData", "Local")
			}
		} else {
			dataHome = filepath.Join(homeDir, ".local", "share")
		}
	}

	dir := filepath.Join(dataHome, "sfseed")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: could not create data directory %s: %v, using %s", dir, err, fallbackDBPath)
		return fallbackDBPath
	}
	return filepath.Join(dir, "mock.db")
}
