//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Tests for the lint gate helpers.
package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackagePatterns(t *testing.T) {
	assert.Equal(t, []string{"./cmd/...", "./internal/...", "./pkg/..."}, packagePatterns())
}

func TestNonEmptyLines(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []string
	}{
		{"empty", "", nil},
		{"blank lines only", "\n\n", nil},
		{"gofmt listing", "internal/ensdf/parser.go\ninternal/metrics/metrics.go\n",
			[]string{"internal/ensdf/parser.go", "internal/metrics/metrics.go"}},
		{"crlf and padding", "  pkg/types/tables.go\r\n", []string{"pkg/types/tables.go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nonEmptyLines(tt.out))
		})
	}
}
