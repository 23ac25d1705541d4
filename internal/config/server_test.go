package config

import (
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.PostgresDSN != "" {
		t.Fatalf("PostgresDSN = %q, want empty (archive disabled)", cfg.PostgresDSN)
	}
	if cfg.RoomTTL != 30*time.Minute {
		t.Fatalf("RoomTTL = %v, want 30m", cfg.RoomTTL)
	}
	if cfg.PumpInterval != time.Second {
		t.Fatalf("PumpInterval = %v, want 1s", cfg.PumpInterval)
	}
	if cfg.EventBufferMax != 500 {
		t.Fatalf("EventBufferMax = %d, want 500", cfg.EventBufferMax)
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("ROOM_TTL", "5m")
	t.Setenv("PUMP_INTERVAL", "250ms")
	t.Setenv("EVENT_BUFFER_MAX", "64")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.RoomTTL != 5*time.Minute {
		t.Fatalf("RoomTTL = %v, want 5m", cfg.RoomTTL)
	}
	if cfg.PumpInterval != 250*time.Millisecond {
		t.Fatalf("PumpInterval = %v, want 250ms", cfg.PumpInterval)
	}
	if cfg.EventBufferMax != 64 {
		t.Fatalf("EventBufferMax = %d, want 64", cfg.EventBufferMax)
	}
}

func TestLoadGameDefaultsMatchTunables(t *testing.T) {
	cfg, err := LoadGame()
	if err != nil {
		t.Fatalf("LoadGame() error = %v", err)
	}
	if cfg.HandSize != 5 || cfg.DrawOnSkip != 2 || cfg.MaxGear != 3 {
		t.Fatalf("unexpected game config: %+v", cfg)
	}
	tun := cfg.Tunables()
	if tun.TurnTimeout != 20*time.Second {
		t.Fatalf("TurnTimeout = %v, want 20s", tun.TurnTimeout)
	}
	if tun.TimeBankInitial != time.Minute {
		t.Fatalf("TimeBankInitial = %v, want 60s", tun.TimeBankInitial)
	}
}

func TestLoadGameOverrides(t *testing.T) {
	t.Setenv("TURN_TIMEOUT", "3s")
	t.Setenv("HAND_SIZE", "7")

	cfg, err := LoadGame()
	if err != nil {
		t.Fatalf("LoadGame() error = %v", err)
	}
	if cfg.TurnTimeout != 3*time.Second {
		t.Fatalf("TurnTimeout = %v, want 3s", cfg.TurnTimeout)
	}
	if cfg.HandSize != 7 {
		t.Fatalf("HandSize = %d, want 7", cfg.HandSize)
	}
}
