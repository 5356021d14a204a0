package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ngo-crm/feedback-crm/internal/infrastructure/db/memory"
	"github.com/ngo-crm/feedback-crm/internal/pkg/config"
)

func TestOpenStores_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageMemory, SessionBackend: config.StorageMemory}

	st, err := openStores(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer st.Close(context.Background())

	if _, ok := st.users.(*memory.UserRepository); !ok {
		t.Errorf("expected memory user repository, got %T", st.users)
	}
	if _, ok := st.sessions.(*memory.SessionStore); !ok {
		t.Errorf("expected memory session store, got %T", st.sessions)
	}
	if len(st.checks) != 0 {
		t.Errorf("memory storage should register no readiness checks, got %d", len(st.checks))
	}

	users, err := st.users.List(context.Background())
	if err != nil || len(users) != 3 {
		t.Fatalf("expected the 3 seeded users, got %d (%v)", len(users), err)
	}
	ref, err := st.tasks.NextReference(context.Background())
	if err != nil || ref != "FB-006" {
		t.Errorf("expected FB-006, got %q (%v)", ref, err)
	}
}

func TestOpenStores_BadSeedFile(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageMemory, SessionBackend: config.StorageMemory, SeedFile: "/nonexistent/seed.yaml"}

	if _, err := openStores(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected an error for a missing seed file")
	}
}
