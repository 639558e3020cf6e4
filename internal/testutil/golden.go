package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Golden compares got against testdata/golden/{name}.golden.
//
// To regenerate golden files, run the package tests with -update:
//
//	go test ./internal/reporter -update
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, got)
}
