package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emberlang/ember/semantic"
	"github.com/nalgeon/be"
)

func writeTree(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.etree")
	be.Err(t, os.WriteFile(path, []byte(source), 0o644), nil)
	return path
}

func TestVerboseWriter(t *testing.T) {
	var buf bytes.Buffer
	be.True(t, verboseWriter(false, &buf) == io.Discard)
	be.True(t, verboseWriter(true, &buf) == io.Writer(&buf))
}

func TestDumpKeepsStdoutForTheTree(t *testing.T) {
	path := writeTree(t, "(program (var x i32 1))")

	var out, errOut bytes.Buffer
	failed, err := dump(&out, &errOut, path, semantic.DefaultConfig(), true, false)
	be.Err(t, err, nil)
	be.True(t, !failed)
	be.Equal(t, out.String(), "(program\n  (var x i32 1))\n")
	be.True(t, strings.Contains(errOut.String(), "Read "+path))
	be.True(t, strings.Contains(errOut.String(), "Analyzed with 1 job(s)"))
}

func TestDumpWritesDiagnosticsToErrOut(t *testing.T) {
	path := writeTree(t, "(program (var x i32 true))")

	var out, errOut bytes.Buffer
	failed, err := dump(&out, &errOut, path, semantic.DefaultConfig(), false, true)
	be.Err(t, err, nil)
	be.True(t, failed)
	be.Equal(t, errOut.String(), path+":1:21: Semantic error: mismatched types: expected i32, found bool\n")
	be.True(t, strings.HasPrefix(out.String(), "(program\n"))
	be.True(t, strings.Contains(out.String(), "\nSymbols:\nlocal x: i32\n"))
}

func TestDumpMissingFile(t *testing.T) {
	var out, errOut bytes.Buffer
	_, err := dump(&out, &errOut, filepath.Join(t.TempDir(), "missing.etree"), semantic.DefaultConfig(), false, false)
	be.True(t, err != nil)
	be.Equal(t, out.Len(), 0)
}
