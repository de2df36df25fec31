package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"LOG_STYLE", "LOG_LEVEL", "ENGINE_PATH", "ENGINE_MOVE_TIME",
		"ENGINE_WATCHDOG_FACTOR", "ENGINE_HANDSHAKE_TIMEOUT_MS",
		"SESSION_QUEUE_SIZE", "SERVER_ADDR", "POSTGRES_URL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Engine.MoveTime != 2000 {
		t.Fatalf("default MoveTime = %d, want 2000", cfg.Engine.MoveTime)
	}
	if cfg.Engine.WatchdogFactor != 3 {
		t.Fatalf("default WatchdogFactor = %d, want 3", cfg.Engine.WatchdogFactor)
	}
	if cfg.Engine.QueueSize != 16 {
		t.Fatalf("default QueueSize = %d, want 16", cfg.Engine.QueueSize)
	}
	if cfg.Logs.Style != "console" || cfg.Logs.Level != "info" {
		t.Fatalf("default log config = %+v", cfg.Logs)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("default server addr = %q", cfg.Server.Addr)
	}
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("ENGINE_PATH", "/opt/stockfish/stockfish")
	t.Setenv("ENGINE_MOVE_TIME", "750")
	t.Setenv("SESSION_QUEUE_SIZE", "4")
	t.Setenv("LOG_STYLE", "json")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Engine.Path != "/opt/stockfish/stockfish" {
		t.Fatalf("Engine.Path = %q", cfg.Engine.Path)
	}
	if cfg.Engine.MoveTime != 750 {
		t.Fatalf("Engine.MoveTime = %d, want 750", cfg.Engine.MoveTime)
	}
	if cfg.Engine.QueueSize != 4 {
		t.Fatalf("Engine.QueueSize = %d, want 4", cfg.Engine.QueueSize)
	}
	if cfg.Logs.Style != "json" {
		t.Fatalf("Logs.Style = %q, want json", cfg.Logs.Style)
	}
}
