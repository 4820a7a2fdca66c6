package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Valores padrão para campos opcionais do pipeline.
const (
	DefaultMinSimilarity   = 92
	DefaultCurrency        = "BRL"
	DefaultOutput          = "vencedores.csv"
	DefaultPipelineWorkers = 1
)

// PipelineConfig é o arquivo YAML do pipeline.
type PipelineConfig struct {
	Sources          []string           `yaml:"sources"`
	MinSimilarity    *int               `yaml:"min_similarity"`
	ExchangeRates    map[string]float64 `yaml:"exchange_rates"`
	PlatformPriority []string           `yaml:"platform_priority"`
	DefaultCurrency  string             `yaml:"default_currency"`
	Output           string             `yaml:"output"`
	Workers          int                `yaml:"workers"`
}

// LoadPipeline lê o YAML, expande variáveis de ambiente, aplica padrões e valida.
func LoadPipeline(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline config: %w", err)
	}
	return ParsePipeline(data)
}

// ParsePipeline faz o mesmo que LoadPipeline a partir dos bytes do arquivo.
func ParsePipeline(data []byte) (*PipelineConfig, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg PipelineConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse pipeline yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate pipeline config: %w", err)
	}
	return &cfg, nil
}

// Similarity devolve o limite de fusão (min_similarity).
func (c *PipelineConfig) Similarity() int {
	if c.MinSimilarity == nil {
		return DefaultMinSimilarity
	}
	return *c.MinSimilarity
}

func (c *PipelineConfig) applyDefaults() {
	if c.MinSimilarity == nil {
		v := DefaultMinSimilarity
		c.MinSimilarity = &v
	}
	if c.DefaultCurrency == "" {
		c.DefaultCurrency = DefaultCurrency
	}
	c.DefaultCurrency = strings.ToUpper(strings.TrimSpace(c.DefaultCurrency))
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Workers == 0 {
		c.Workers = DefaultPipelineWorkers
	}
}

// Validate confere faixas e valores obrigatórios.
func (c *PipelineConfig) Validate() error {
	if s := c.Similarity(); s < 0 || s > 100 {
		return fmt.Errorf("min_similarity must be between 0 and 100, got %d", s)
	}
	for code, rate := range c.ExchangeRates {
		if strings.TrimSpace(code) == "" {
			return errors.New("exchange_rates: empty currency code")
		}
		if rate <= 0 {
			return fmt.Errorf("exchange_rates.%s must be > 0, got %g", code, rate)
		}
	}
	seen := make(map[string]bool, len(c.PlatformPriority))
	for _, p := range c.PlatformPriority {
		if p == "" {
			return errors.New("platform_priority: empty platform")
		}
		if seen[p] {
			return fmt.Errorf("platform_priority: duplicate platform %q", p)
		}
		seen[p] = true
	}
	if c.Workers < 1 {
		return errors.New("workers must be >= 1")
	}
	return nil
}
