package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// EmbeddingConfig points at an OpenAI-compatible embeddings endpoint.
// The API key itself is read from the named environment variable, not
// from the config file.
type EmbeddingConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKeyEnv string        `mapstructure:"api_key_env"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CorpusConfig locates the curated source data.
type CorpusConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// IngestConfig tunes the document ingestion pipeline.
type IngestConfig struct {
	ChunkSize     int           `mapstructure:"chunk_size"`
	Overlap       int           `mapstructure:"overlap"`
	TempDir       string        `mapstructure:"temp_dir"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	MaxFileAge    time.Duration `mapstructure:"max_file_age"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variables override the file, e.g. server.address ->
	// SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "fitness_assistant")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("jwt.expiration", "1h")
	viper.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	viper.SetDefault("embedding.api_key_env", "OPENAI_API_KEY")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.timeout", "30s")
	viper.SetDefault("corpus.data_dir", "data/fitness_corpus")
	viper.SetDefault("ingest.chunk_size", 1000)
	viper.SetDefault("ingest.overlap", 100)
	viper.SetDefault("ingest.temp_dir", "temp")
	viper.SetDefault("ingest.sweep_interval", "1h")
	viper.SetDefault("ingest.max_file_age", "24h")

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file is optional; env vars and defaults carry it.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
