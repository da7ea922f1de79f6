package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Predictor PredictorConfig `mapstructure:"predictor"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type EmbeddingConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	Dimensions int           `mapstructure:"dimensions"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	BatchLimit int           `mapstructure:"batch_limit"`
}

type PredictorConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	URL        string        `mapstructure:"url"`
	ResultsTTL time.Duration `mapstructure:"results_ttl"`
}

type RecommendConfig struct {
	DefaultCount  int           `mapstructure:"default_count"`
	Weights       WeightsConfig `mapstructure:"weights"`
	PeerThreshold float64       `mapstructure:"peer_threshold"`
	MaxPeers      int           `mapstructure:"max_peers"`
}

type WeightsConfig struct {
	Semantic      float64 `mapstructure:"semantic"`
	Predictive    float64 `mapstructure:"predictive"`
	Collaborative float64 `mapstructure:"collaborative"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// Set defaults
	setDefaults()

	// Environment variable overrides
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Embedding provider defaults
	viper.SetDefault("embedding.endpoint", "https://api.openai.com/v1/embeddings")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.dimensions", 1536)
	viper.SetDefault("embedding.timeout", "30s")
	viper.SetDefault("embedding.max_retries", 3)
	viper.SetDefault("embedding.batch_limit", 64)

	// Predictor defaults; an empty endpoint selects the local heuristic model
	viper.SetDefault("predictor.endpoint", "")
	viper.SetDefault("predictor.timeout", "10s")

	// Vector cache defaults
	viper.SetDefault("cache.path", "./outputs/embeddings_cache.json")

	// Redis defaults; an empty URL disables the warm result cache
	viper.SetDefault("redis.url", "")
	viper.SetDefault("redis.results_ttl", "15m")

	// Recommendation defaults
	viper.SetDefault("recommend.default_count", 5)
	viper.SetDefault("recommend.weights.semantic", 0.40)
	viper.SetDefault("recommend.weights.predictive", 0.35)
	viper.SetDefault("recommend.weights.collaborative", 0.25)
	viper.SetDefault("recommend.peer_threshold", 0.2)
	viper.SetDefault("recommend.max_peers", 10)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}
