package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Sample inputs used across packages.
const (
	MessagesCSV   = "id,message\n1,flood\n2,help\n"
	CategoriesCSV = "id,categories\n1,related-1;offer-0\n2,related-2;offer-1\n"
)

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// SampleInputs writes the sample messages and categories files to a temp dir and
// returns their paths plus a database path in the same directory.
func SampleInputs(t testing.TB) (messages, categories, database string) {
	t.Helper()
	dir := t.TempDir()
	messages = WriteFile(t, dir, "messages.csv", MessagesCSV)
	categories = WriteFile(t, dir, "categories.csv", CategoriesCSV)
	database = filepath.Join(dir, "DisasterResponse.db")
	return messages, categories, database
}
