package maps

import (
	"errors"
	"strings"
)

// validateMapURL enforces the hosting policy: maps must live on GitHub
// Pages or raw.githubusercontent.com and point at a Tiled map file.
func validateMapURL(mapURL string) error {
	host, path, found := strings.Cut(mapURL, "/")
	if !found || host == "" || path == "" {
		return errors.New("map url must be host/path/to/map.tmj")
	}

	host = strings.ToLower(host)
	if !strings.HasSuffix(host, ".github.io") && host != "raw.githubusercontent.com" {
		return errors.New("maps must be hosted on *.github.io or raw.githubusercontent.com")
	}

	lower := strings.ToLower(path)
	if !strings.HasSuffix(lower, ".tmj") && !strings.HasSuffix(lower, ".json") {
		return errors.New("map url must point at a .tmj or .json map file")
	}
	return nil
}
