package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRunKeysCommand(t *testing.T) {
	var table bytes.Buffer
	if err := runKeysCommand(&table, "table"); err != nil {
		t.Fatalf("table: %v", err)
	}
	if !strings.Contains(table.String(), "clear logs") {
		t.Errorf("table output missing binding:\n%s", table.String())
	}

	var js bytes.Buffer
	if err := runKeysCommand(&js, "json"); err != nil {
		t.Fatalf("json: %v", err)
	}
	var entries []map[string]string
	if err := json.Unmarshal(js.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) == 0 {
		t.Error("json output has no entries")
	}

	if err := runKeysCommand(&bytes.Buffer{}, "yaml"); err == nil {
		t.Error("unknown format should fail")
	}
}
