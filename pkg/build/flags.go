// SPDX-License-Identifier: MIT
//
// Package build carries the metadata embedded at link time, for example:
//
//	go build -ldflags "-X glitch/pkg/build.buildName=glitch \
//	    -X glitch/pkg/build.buildVersion=0.3.0 \
//	    -X glitch/pkg/build.buildCommit=$(git rev-parse --short HEAD) \
//	    -X glitch/pkg/build.buildTime=$(date -u +%FT%TZ)"
//
// Development builds run without ldflags; every missing value keeps its
// "dev" default and Initialize reports which ones were absent.
package build

import (
	"errors"
	"fmt"
)

const description = "Pseudo-cycle distortion and glitch processor for WAV files"

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// Package-level variables for build information, populated by -ldflags.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = defaultFlags()
)

func defaultFlags() *ldFlags {
	return &ldFlags{
		Name:        "glitch",
		Description: description,
		Time:        "dev",
		Commit:      "dev",
		Version:     "dev",
	}
}

// Initialize copies the ldflags variables into the build information. Values
// that were not provided keep their defaults; the returned error lists them so
// release pipelines can fail loudly while local builds only log it.
func Initialize() error {
	var errs []error
	set := func(dst *string, val, flag string) {
		if val == "" {
			errs = append(errs, fmt.Errorf("%s is required", flag))
			return
		}
		*dst = val
	}

	set(&buildFlags.Name, buildName, "BuildName")
	set(&buildFlags.Time, buildTime, "BuildTime")
	set(&buildFlags.Commit, buildCommit, "BuildCommit")
	set(&buildFlags.Version, buildVersion, "BuildVersion")

	return errors.Join(errs...)
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}

// VersionString formats the version line printed by --version.
func VersionString() string {
	f := GetBuildFlags()
	return fmt.Sprintf("%s (commit %s, built %s)", f.Version, f.Commit, f.Time)
}
