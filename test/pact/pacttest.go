//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "inventory-dashboard-api"
	ConsumerName = "inventory-dashboard-ui"

	StateOrderExists      = "order 42 with two items and one shipment exists"
	StateOrderMissing     = "no order with id 404"
	StateArchiveDown      = "order 7 exists and the archive store is unreachable"
	StateDeleteFailsAfter = "order 9 exists and its relational delete fails after archival"
)

const (
	ExistingOrderID    int64 = 42
	MissingOrderID     int64 = 404
	ArchiveDownOrderID int64 = 7
	PartialOrderID     int64 = 9
)

const (
	ExampleArchiveID = "0b6c8f0e-52f4-5d8e-9a65-3f1d5c2b7a10"
	ExampleDeletedAt = "2024-04-02T09:30:00Z"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the dashboard consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
