package cliconfig

import (
	"os"
	"strings"
)

// DefaultNodeName returns the short host name (everything before the first
// dot), or "camera" if the host name is unavailable.
func DefaultNodeName() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "camera"
	}
	return shortName(h)
}

func shortName(host string) string {
	name, _, _ := strings.Cut(host, ".")
	if name == "" {
		return "camera"
	}
	return name
}
