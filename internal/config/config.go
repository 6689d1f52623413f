package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/omsherikar/rgipt-student-portal/pkg/config"
	"github.com/omsherikar/rgipt-student-portal/pkg/database"
	"github.com/omsherikar/rgipt-student-portal/pkg/log"
)

type Config struct {
	Server    ServerConfig
	Database  database.Config
	Redis     RedisConfig
	JWT       JWTConfig
	WebSocket WebSocketConfig
	Log       log.Config
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Enabled         bool
	Address         string
	Password        string
	DB              int
	CachePrefix     string        `mapstructure:"cache_prefix"`
	ConversationTTL time.Duration `mapstructure:"conversation_ttl"`
}

type JWTConfig struct {
	Secret          string
	AccessDuration  time.Duration `mapstructure:"access_duration"`
	RefreshDuration time.Duration `mapstructure:"refresh_duration"`
	Issuer          string
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "portal")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "student_portal")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.file_path", "portal.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_prefix", "portal:cache")
	v.SetDefault("redis.conversation_ttl", "30s")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access_duration", "15m")
	v.SetDefault("jwt.refresh_duration", "168h")
	v.SetDefault("jwt.issuer", "rgipt-student-portal")
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.service_name", "student-portal")

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.JWT.AccessDuration = parseDuration(v, "jwt.access_duration", 15*time.Minute)
	cfg.JWT.RefreshDuration = parseDuration(v, "jwt.refresh_duration", 7*24*time.Hour)
	cfg.Redis.ConversationTTL = parseDuration(v, "redis.conversation_ttl", 30*time.Second)
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}
