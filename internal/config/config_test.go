package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	// Путь заведомо не существует - работаем на дефолтах
	cfg, err := NewConfig(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ServerPort != "5641" {
		t.Errorf("ServerPort = %q, want 5641", cfg.ServerPort)
	}
	if cfg.ModelName != "mistral-small-latest" {
		t.Errorf("ModelName = %q", cfg.ModelName)
	}
	if cfg.GeneratorTimeout != 30*time.Second {
		t.Errorf("GeneratorTimeout = %v, want 30s", cfg.GeneratorTimeout)
	}
	if cfg.PriceOpeningMin != 50 || cfg.PriceOpeningMax != 300 {
		t.Errorf("price range = [%v, %v], want [50, 300]", cfg.PriceOpeningMin, cfg.PriceOpeningMax)
	}
	if cfg.EfficientRounds != 6 {
		t.Errorf("EfficientRounds = %d, want 6", cfg.EfficientRounds)
	}
	if cfg.PgHost != "" {
		t.Errorf("PgHost = %q, want empty (memory store by default)", cfg.PgHost)
	}
}

func TestNewConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=9000\nEFFICIENT_ROUNDS=4\nPRICE_OPENING_MAX=200\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ServerPort != "9000" {
		t.Errorf("ServerPort = %q, want 9000", cfg.ServerPort)
	}
	if cfg.EfficientRounds != 4 {
		t.Errorf("EfficientRounds = %d, want 4", cfg.EfficientRounds)
	}
	if cfg.PriceOpeningMax != 200 {
		t.Errorf("PriceOpeningMax = %v, want 200", cfg.PriceOpeningMax)
	}
	// Незатронутые ключи остаются на дефолтах
	if cfg.PriceOpeningMin != 50 {
		t.Errorf("PriceOpeningMin = %v, want default 50", cfg.PriceOpeningMin)
	}
}

func validConfig() Config {
	return Config{
		ServerPort:          "5641",
		GeneratorTimeout:    30 * time.Second,
		PriceOpeningMin:     50,
		PriceOpeningMax:     300,
		DeliveryOpeningMin:  40,
		DeliveryOpeningMax:  100,
		TargetReductionMin:  0.15,
		TargetReductionMax:  0.25,
		ReserveReductionMin: 0.10,
		ReserveReductionMax: 0.15,
		EfficientRounds:     6,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"inverted price range", func(c *Config) { c.PriceOpeningMax = 40 }, true},
		{"zero price min", func(c *Config) { c.PriceOpeningMin = 0 }, true},
		{"inverted delivery range", func(c *Config) { c.DeliveryOpeningMax = 10 }, true},
		{"target reduction above one", func(c *Config) { c.TargetReductionMax = 1.5 }, true},
		{"target reduction max below min", func(c *Config) { c.TargetReductionMax = 0.10 }, true},
		{"negative reserve reduction", func(c *Config) { c.ReserveReductionMin = -0.1 }, true},
		{"zero efficient rounds", func(c *Config) { c.EfficientRounds = 0 }, true},
		{"zero generator timeout", func(c *Config) { c.GeneratorTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
