// Package goldie wraps github.com/sebdah/goldie/v2 with the fixture layout used across this repository.
//
// Fixtures live in testdata/fixtures/<name>.golden next to the test. A missing fixture fails the
// test, run the tests with -update to record fixtures after an intended change of the generated output.
package goldie

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

const (
	FixtureDir = "testdata/fixtures"
	nameSuffix = ".golden"
)

func New(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir(FixtureDir),
		goldie.WithNameSuffix(nameSuffix),
	)
}

// Path returns the fixture file for name.
func Path(name string) string {
	return filepath.Join(FixtureDir, name+nameSuffix)
}
