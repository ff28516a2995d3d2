package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/eekit/eeprom"
)

// resetFlags restores every global flag to its default before a test.
func resetFlags() {
	def := eeprom.DefaultGeometry()
	verbose, quiet, jsonOut, logDir = false, false, false, ""
	sectorSize, blockSize, capacity = def.SectorSize, 0, def.Capacity
	wordSize, dataSize, baseAddr = def.WordSize, def.DataSize, 0
	createForce, getHex, dumpHex = false, false, false
}

// testImage creates a blank image in a temp dir with the current flag
// geometry and returns its path.
func testImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flash.img")
	if _, err := captureOutput(t, func() error { return runCreate([]string{path}) }); err != nil {
		t.Fatalf("create image: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
