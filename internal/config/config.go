package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"newsclassifier/internal/models"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

// PromptModelConfig configures a model-backed classifier.
type PromptModelConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	PromptTemplate string `mapstructure:"prompt_template"` // Path to prompt template file
	MaxSentences   int    `mapstructure:"max_sentences"`
}

type Config struct {
	Server struct {
		Addr            string        `mapstructure:"addr"`
		Port            string        `mapstructure:"port"`
		Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		RequestTimeout  time.Duration `mapstructure:"request_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`

	Classifier struct {
		Type                 string            `mapstructure:"type"` // "linear", "llm" or "gemini"
		Labels               []string          `mapstructure:"labels"`
		ModelPath            string            `mapstructure:"model_path"`
		MaxConcurrency       int               `mapstructure:"max_concurrency"`
		Fallback             bool              `mapstructure:"fallback"`
		JapaneseSegmentation bool              `mapstructure:"japanese_segmentation"`
		LLM                  PromptModelConfig `mapstructure:"llm"`
		Gemini               PromptModelConfig `mapstructure:"gemini"`
	} `mapstructure:"classifier"`

	Replay struct {
		Target  string        `mapstructure:"target"`
		File    string        `mapstructure:"file"`
		Rate    float64       `mapstructure:"rate"` // requests per second, 0 = unlimited
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"replay"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`

	// Pricing: map[provider][model] = struct{input_per_token, output_per_token}
	Pricing map[string]map[string]PricingInfo `mapstructure:"pricing"`
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Addr, c.Server.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("classifier.type", "linear")
	v.SetDefault("classifier.labels", slices.Clone(models.DefaultLabels))
	v.SetDefault("classifier.model_path", "")
	v.SetDefault("classifier.max_concurrency", 0)
	v.SetDefault("classifier.fallback", false)
	v.SetDefault("classifier.japanese_segmentation", true)
	v.SetDefault("classifier.llm.api_key", "")
	v.SetDefault("classifier.llm.base_url", "")
	v.SetDefault("classifier.llm.model", "gpt-4o-mini")
	v.SetDefault("classifier.llm.prompt_template", "")
	v.SetDefault("classifier.llm.max_sentences", 5)
	v.SetDefault("classifier.gemini.api_key", "")
	v.SetDefault("classifier.gemini.model", "gemini-1.5-flash")
	v.SetDefault("classifier.gemini.prompt_template", "")
	v.SetDefault("classifier.gemini.max_sentences", 5)

	v.SetDefault("replay.target", "http://localhost:8080")
	v.SetDefault("replay.file", "data/requests.json")
	v.SetDefault("replay.rate", 0)
	v.SetDefault("replay.timeout", "30s")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("worker.concurrency", 4)
	v.SetDefault("worker.queues", map[string]int{"default": 1})
}

// LoadConfig reads configuration from configFile, or from config.yaml in the
// working directory or ~/.config/newsclassifier when configFile is empty.
// Environment variables (NEWSCLASSIFIER_SERVER_PORT, ...) override the file,
// and a .env file in the working directory is loaded first when present.
func LoadConfig(configFile string) (*Config, error) {
	loadDotEnv()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "newsclassifier"))
		}
	}

	v.SetEnvPrefix("NEWSCLASSIFIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider keys are usually exported under their conventional names.
	_ = v.BindEnv("classifier.llm.api_key", "NEWSCLASSIFIER_CLASSIFIER_LLM_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("classifier.gemini.api_key", "NEWSCLASSIFIER_CLASSIFIER_GEMINI_API_KEY", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("No config file found, using defaults and environment")
	} else {
		log.Debugf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &cfg, nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Failed to load .env file: %v", err)
	}
}
