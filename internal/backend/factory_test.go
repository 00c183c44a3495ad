package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bplog/internal/config"
	"bplog/internal/storage"
	"bplog/internal/storage/memory"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}

	app := &config.Config{DataBackend: "postgres"}
	if _, err := FromAppConfig(app); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	app = &config.Config{DataBackend: "sqlite", SQLiteDBPath: "./db/bp.db", AMQPQueue: "q", Location: time.UTC}
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "./db/bp.db" || cfg.AMQPQueue != "q" || cfg.Location != time.UTC {
		t.Fatalf("unexpected backend config %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"sqlite with path", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"memory", Config{Type: MemoryBackend}, false},
		{"unknown", Config{Type: "postgres"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	f := NewFactory(nil)
	ctx := context.Background()

	res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := res.Backend.(*memory.Store); !ok || res.Publisher != nil {
		t.Fatalf("unexpected memory backend %+v", res)
	}
	if err := res.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	res, err = f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "db", "bp.db"), Location: time.UTC})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	if _, ok := res.Backend.(*storage.SQLiteRepository); !ok {
		t.Fatalf("expected sqlite repository, got %T", res.Backend)
	}
	if err := res.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := f.CreateBackend(ctx, Config{Type: "bogus"}); err == nil {
		t.Fatal("expected error for invalid type")
	}
}
