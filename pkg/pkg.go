//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of wrapsetup embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It appears in help text and is the default
	// name of the configuration and cache directories.
	Name = "wrapsetup"
	// Description is a short summary used in help output.
	Description = "Run a Python setup script with a build-number version suffix"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
