package database

import (
	"context"
	"testing"
)

func TestEnsureSchemaRejectsNonPositiveDimension(t *testing.T) {
	if err := EnsureSchema(context.Background(), nil, 0); err == nil {
		t.Fatal("expected error for zero dimension")
	}
	if err := EnsureSchema(context.Background(), nil, -3); err == nil {
		t.Fatal("expected error for negative dimension")
	}
}
