//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for nuclibre using Mage.
//
// Usage:
//
//	mage build       Compile the nuclibre binary to bin/
//	mage test:all    Run all tests
//	mage test:cover  Run tests with a coverage profile
//	mage lint        Run golangci-lint over cmd/, internal/ and pkg/
//	mage vet         Run go vet over the same packages
//	mage fmt         Fail on files that are not gofmt-clean
//	mage check       Run fmt, vet and lint, then the unit tests
//	mage clean       Remove build artifacts
//	mage install     Install nuclibre to GOPATH/bin
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "nuclibre"
	binaryDir  = "bin"
	cmdDir     = "./cmd/nuclibre"
	versionVar = "github.com/mesh-intelligence/nuclibre/internal/cli.Version"
)

// ldflags stamps the version from NUCLIBRE_VERSION or the nearest git tag.
func ldflags() string {
	v := os.Getenv("NUCLIBRE_VERSION")
	if v == "" {
		out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
		if err != nil {
			return ""
		}
		v = strings.TrimPrefix(out, "v")
	}
	return "-X " + versionVar + "=" + v
}

// Build compiles the nuclibre binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if f := ldflags(); f != "" {
		args = append(args, "-ldflags", f)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	if err := os.Remove(coverProfile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
