package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestCreateMemoryBackend(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if result.Service == nil {
		t.Fatal("CreateBackend() returned nil service")
	}
	defer result.Cleanup()

	ctx := context.Background()
	tx, err := result.Service.CreateTransaction(ctx, core.CreateTransaction{
		Type:     core.Expense,
		Category: core.Food,
		Amount:   core.AmountFromFloat(12.5),
		Date:     time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	if tx.ID == "" {
		t.Fatal("expected an assigned id")
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	factory := NewFactory(nil)

	dbPath := filepath.Join(t.TempDir(), "fintrack.db")
	result, err := factory.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: dbPath,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer result.Cleanup()

	txs, err := result.Service.GetTransactions(context.Background(), core.Filters{})
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("fresh backend should be empty, got %d records", len(txs))
	}
}

func TestCreateBackendInvalidType(t *testing.T) {
	factory := NewFactory(nil)

	if _, err := factory.CreateBackend(context.Background(), Config{Type: "sheets"}); err == nil {
		t.Fatal("expected error for unsupported backend type")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory backend", Config{Type: MemoryBackend}, false},
		{"sqlite with path", Config{Type: SQLiteBackend, SQLiteDBPath: "./x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"unknown type", Config{Type: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
