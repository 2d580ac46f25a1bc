package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config - конфигурация сервиса. Читается из .env файла, переменные
// окружения имеют приоритет.
type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	AllowedOrigin string `mapstructure:"ALLOWED_ORIGIN"`

	MistralApiKey    string        `mapstructure:"MISTRAL_API_KEY"`
	ModelName        string        `mapstructure:"MODEL_NAME"`
	GeneratorTimeout time.Duration `mapstructure:"GENERATOR_TIMEOUT"`

	// Настройки Postgres. При пустом PG_HOST сессии живут в памяти процесса.
	PgHost     string `mapstructure:"PG_HOST"`
	PgPort     string `mapstructure:"PG_PORT"`
	PgUser     string `mapstructure:"PG_USER"`
	PgPassword string `mapstructure:"PG_PASSWORD"`
	PgName     string `mapstructure:"PG_NAME"`

	// Диапазоны генерации параметров продавца. Проверяются на старте:
	// некорректные диапазоны - ошибка конфигурации, а не ошибка запроса.
	PriceOpeningMin     float64 `mapstructure:"PRICE_OPENING_MIN"`
	PriceOpeningMax     float64 `mapstructure:"PRICE_OPENING_MAX"`
	DeliveryOpeningMin  int     `mapstructure:"DELIVERY_OPENING_MIN"`
	DeliveryOpeningMax  int     `mapstructure:"DELIVERY_OPENING_MAX"`
	TargetReductionMin  float64 `mapstructure:"TARGET_REDUCTION_MIN"`
	TargetReductionMax  float64 `mapstructure:"TARGET_REDUCTION_MAX"`
	ReserveReductionMin float64 `mapstructure:"RESERVE_REDUCTION_MIN"`
	ReserveReductionMax float64 `mapstructure:"RESERVE_REDUCTION_MAX"`
	EfficientRounds     int     `mapstructure:"EFFICIENT_ROUNDS"`
}

func NewConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Отсутствие .env не фатально - работаем на дефолтах и окружении
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "5641")
	v.SetDefault("ALLOWED_ORIGIN", "http://localhost:3000")
	v.SetDefault("MODEL_NAME", "mistral-small-latest")
	v.SetDefault("GENERATOR_TIMEOUT", "30s")

	// Диапазоны из учебного сценария: цена $50-300, поставка 40-100 дней,
	// снижение 15-25% до цели и еще 10-15% до резервной точки.
	v.SetDefault("PRICE_OPENING_MIN", 50.0)
	v.SetDefault("PRICE_OPENING_MAX", 300.0)
	v.SetDefault("DELIVERY_OPENING_MIN", 40)
	v.SetDefault("DELIVERY_OPENING_MAX", 100)
	v.SetDefault("TARGET_REDUCTION_MIN", 0.15)
	v.SetDefault("TARGET_REDUCTION_MAX", 0.25)
	v.SetDefault("RESERVE_REDUCTION_MIN", 0.10)
	v.SetDefault("RESERVE_REDUCTION_MAX", 0.15)
	v.SetDefault("EFFICIENT_ROUNDS", 6)
}

// Validate проверяет, что диапазоны генерации не могут дать
// немонотонный набор параметров. Нарушение - фатальная ошибка старта.
func (c *Config) Validate() error {
	if c.PriceOpeningMin <= 0 || c.PriceOpeningMax <= c.PriceOpeningMin {
		return fmt.Errorf("config: invalid price opening range [%v, %v]", c.PriceOpeningMin, c.PriceOpeningMax)
	}
	if c.DeliveryOpeningMin <= 0 || c.DeliveryOpeningMax <= c.DeliveryOpeningMin {
		return fmt.Errorf("config: invalid delivery opening range [%d, %d]", c.DeliveryOpeningMin, c.DeliveryOpeningMax)
	}
	if err := validateReduction("target reduction", c.TargetReductionMin, c.TargetReductionMax); err != nil {
		return err
	}
	if err := validateReduction("reservation reduction", c.ReserveReductionMin, c.ReserveReductionMax); err != nil {
		return err
	}
	if c.EfficientRounds <= 0 {
		return fmt.Errorf("config: efficient rounds must be positive, got %d", c.EfficientRounds)
	}
	if c.GeneratorTimeout <= 0 {
		return fmt.Errorf("config: generator timeout must be positive, got %v", c.GeneratorTimeout)
	}
	return nil
}

func validateReduction(name string, min, max float64) error {
	if min <= 0 || min >= 1 {
		return fmt.Errorf("config: %s min must be in (0, 1), got %v", name, min)
	}
	if max <= min || max >= 1 {
		return fmt.Errorf("config: %s max must be in (min, 1), got %v", name, max)
	}
	return nil
}
