package ingestion

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadDocumentStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.txt")
	if err := os.WriteFile(path, []byte("﻿content"), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	text, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "content" {
		t.Fatalf("expected BOM stripped, got %q", text)
	}
}

func TestReadDocumentMissingFile(t *testing.T) {
	if _, err := ReadDocument(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadDocumentRejectsBrokenPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	if _, err := ReadDocument(path); err == nil {
		t.Fatal("expected error for malformed pdf")
	}
}
