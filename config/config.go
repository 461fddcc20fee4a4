// api/config/config.go
package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Supabase      SupabaseConfiguration
	Neo4j         DatabaseConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
	Routing       RoutingConfiguration
	Cache         CacheConfiguration
	Auth          AuthConfiguration
	RateLimit     RateLimitConfiguration
	Log           LogConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port            string
	ShutdownTimeout time.Duration
}

// SupabaseConfiguration points at the hosted data service
type SupabaseConfiguration struct {
	URL        string
	ServiceKey string
	JWTSecret  string
	Timeout    time.Duration
	RetryMax   int
}

// DatabaseConfiguration stores data for database connection
type DatabaseConfiguration struct {
	URI      string
	Username string
	Password string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr     string
	Password string
	DB       int
	RouteTTL time.Duration
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL   string
	Index string
}

// RoutingConfiguration stores the external routing provider settings
type RoutingConfiguration struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfiguration controls the in-process catalog caches
type CacheConfiguration struct {
	TTL          time.Duration
	FetchTimeout time.Duration
}

// AuthConfiguration controls session resolution and the optional role cache
type AuthConfiguration struct {
	CookieName   string
	SessionCache SessionCacheConfiguration `mapstructure:"session_cache"`
}

type SessionCacheConfiguration struct {
	Enabled bool
	TTL     time.Duration
}

type RateLimitConfiguration struct {
	Requests int
	Per      time.Duration
}

type LogConfiguration struct {
	Dir string
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	// SUPABASE_URL overrides supabase.url and so on
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

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

// SetDefaults registers a default for every key so that environment
// overrides are picked up by Unmarshal.
func SetDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdownTimeout", "5s")
	viper.SetDefault("supabase.url", "http://localhost:54321")
	viper.SetDefault("supabase.serviceKey", "")
	viper.SetDefault("supabase.jwtSecret", "")
	viper.SetDefault("supabase.timeout", "10s")
	viper.SetDefault("supabase.retryMax", 2)
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("neo4j.username", "neo4j")
	viper.SetDefault("neo4j.password", "")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.routeTTL", "1h")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("elasticsearch.index", "harvest-audit")
	viper.SetDefault("routing.baseURL", "https://router.project-osrm.org")
	viper.SetDefault("routing.timeout", "10s")
	viper.SetDefault("cache.ttl", "60s")
	viper.SetDefault("cache.fetchTimeout", "10s")
	viper.SetDefault("auth.cookieName", "sb-access-token")
	viper.SetDefault("auth.session_cache.enabled", false)
	viper.SetDefault("auth.session_cache.ttl", "5m")
	viper.SetDefault("ratelimit.requests", 100)
	viper.SetDefault("ratelimit.per", "1m")
	viper.SetDefault("log.dir", "")
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

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
