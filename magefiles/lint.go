//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binLint     = "golangci-lint"
	binGofmt    = "gofmt"
	lintTimeout = "5m"
)

// sourceDirs hold the nuclibre packages. The build tooling in magefiles/
// is not part of the gates.
var sourceDirs = []string{"cmd", "internal", "pkg"}

// packagePatterns returns a ./dir/... pattern per source directory.
func packagePatterns() []string {
	pats := make([]string, len(sourceDirs))
	for i, d := range sourceDirs {
		pats[i] = "./" + d + "/..."
	}
	return pats
}

// Lint runs golangci-lint over the nuclibre packages.
func Lint() error {
	args := append([]string{"run", "--timeout", lintTimeout}, packagePatterns()...)
	return sh.RunV(binLint, args...)
}

// Vet runs go vet over the nuclibre packages.
func Vet() error {
	return sh.RunV(binGo, append([]string{"vet"}, packagePatterns()...)...)
}

// Fmt fails when a source file is not gofmt-clean and names the files.
func Fmt() error {
	out, err := sh.Output(binGofmt, append([]string{"-l"}, sourceDirs...)...)
	if err != nil {
		return err
	}
	if files := nonEmptyLines(out); len(files) > 0 {
		return fmt.Errorf("gofmt needed on %d files:\n%s", len(files), strings.Join(files, "\n"))
	}
	return nil
}

// Check runs the format, vet and lint gates and then the unit tests.
func Check() {
	mg.SerialDeps(Fmt, Vet, Lint, Test.Unit)
}

// nonEmptyLines splits command output into lines, dropping blank ones.
func nonEmptyLines(out string) []string {
	var lines []string
	for l := range strings.SplitSeq(out, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
