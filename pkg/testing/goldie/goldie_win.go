//go:build windows

package goldie

import (
	"bytes"
	"testing"
)

func Assert(t *testing.T, name string, actual []byte) {
	t.Helper()

	New(t).Assert(t, name, bytes.ReplaceAll(actual, []byte("\r\n"), []byte("\n")))
}

func Update(t *testing.T, name string, actual []byte) {
	t.Helper()

	_ = New(t).Update(t, name, bytes.ReplaceAll(actual, []byte("\r\n"), []byte("\n")))
}
