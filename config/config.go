// config/config.go
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Pipeline      PipelineConfiguration
	Engine        EngineConfiguration
	Parser        ParserConfiguration
	Redis         RedisConfiguration
	Neo4j         DatabaseConfiguration
	Elasticsearch ElasticsearchConfiguration
	Huggingface   HuggingfaceConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Enabled bool
	Port    string
	APIKey  string
}

// PipelineConfiguration stores batch pipeline settings
type PipelineConfiguration struct {
	ArtifactsDir string
	NormsFile    string
	LogsFile     string
}

// EngineConfiguration stores reasoning engine tunables. The overlap
// threshold is a heuristic constant inherited from the matching cascade;
// it is configurable on purpose.
type EngineConfiguration struct {
	KeywordOverlapThreshold float64
	Workers                 int
}

// ParserConfiguration stores ingestion tunables
type ParserConfiguration struct {
	TimestampThreshold float64
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Enabled         bool
	Addr            string
	DefaultCacheTTL string
}

// DatabaseConfiguration stores data for database connection
type DatabaseConfiguration struct {
	Enabled bool
	URI     string
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	Enabled bool
	URL     string
}

// HuggingfaceConfiguration stores settings for the external explanation model
type HuggingfaceConfiguration struct {
	URL      string
	Model    string
	APIToken string
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("server.enabled", true)
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.apiKey", "")
	viper.SetDefault("pipeline.artifactsDir", "artifacts")
	viper.SetDefault("pipeline.normsFile", "")
	viper.SetDefault("pipeline.logsFile", "")
	viper.SetDefault("engine.keywordOverlapThreshold", 0.5)
	viper.SetDefault("engine.workers", 8)
	viper.SetDefault("parser.timestampThreshold", 0.8)
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.dialTimeout", "5s")
	viper.SetDefault("redis.readTimeout", "3s")
	viper.SetDefault("redis.writeTimeout", "3s")
	viper.SetDefault("redis.poolSize", 10)
	viper.SetDefault("redis.defaultCacheTTL", "10m")
	viper.SetDefault("neo4j.enabled", false)
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("neo4j.username", "neo4j")
	viper.SetDefault("neo4j.password", "password")
	viper.SetDefault("elasticsearch.enabled", false)
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("huggingface.url", "https://api-inference.huggingface.co/models")
	viper.SetDefault("huggingface.model", "mistralai/Mistral-7B-Instruct-v0.2")
	viper.SetDefault("huggingface.apiToken", "")
	viper.SetDefault("log.dir", "logging")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 retrieves a float64 value from the configuration
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}
