package tree

import (
	"path"
	"strings"
)

// Nerd Font glyphs.
var extIcons = map[string]string{
	".go":   "",
	".md":   "",
	".json": "",
	".yaml": "",
	".yml":  "",
	".toml": "",
	".js":   "",
	".ts":   "",
	".py":   "",
	".rs":   "",
	".sh":   "",
	".html": "",
	".css":  "",
	".sql":  "",
	".txt":  "",
}

var nameIcons = map[string]string{
	"Makefile":   "",
	"Dockerfile": "",
	"LICENSE":    "",
	".gitignore": "",
	"go.mod":     "",
	"go.sum":     "",
}

const (
	iconFile      = ""
	iconDir       = ""
	iconDirOpen   = ""
	iconSubmodule = ""
)

// fileIcon returns the glyph of a file name.
func fileIcon(name string) string {
	if icon, ok := nameIcons[name]; ok {
		return icon
	}
	if icon, ok := extIcons[strings.ToLower(path.Ext(name))]; ok {
		return icon
	}
	return iconFile
}
