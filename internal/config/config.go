package config

import (
	"strings"

	"github.com/Jojie16/SafeZone/pkg/logger"
	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const ConfigTagName = "env"
const ConfigDefaultTagName = "default"

var config *Config

// Config holds every configuration value used by the service. Only this
// struct must be used to hold configuration; no direct access to env, ini
// or any other config source should be made elsewhere.
type Config struct {
	AppEnv              string `env:"APP_ENV" default:"dev"`
	AppName             string `env:"APP_NAME" default:"safezone"`
	AppDebug            bool   `env:"APP_DEBUG" default:"1"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI"`

	HttpListenAddr         string `env:"HTTP_LISTEN_ADDR" validation:"mustExists"`
	HttpServerReadTimeout  int    `env:"HTTP_SERVER_READ_TIMEOUT"`
	HttpServerWriteTimeout int    `env:"HTTP_SERVER_WRITE_TIMEOUT"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX"`

	PromNamespace string `env:"PROM_NAMESPACE" default:"safezone"`

	// Media intake
	UploadDir         string `env:"UPLOAD_DIR" default:"uploads"`
	UploadMaxBytes    int64  `env:"UPLOAD_MAX_BYTES" default:"10485760"`
	UploadAllowedExts string `env:"UPLOAD_ALLOWED_EXTS" default:"jpg,jpeg,png,gif,mp4,mov,avi"`

	// Fallback coordinates written when a trigger carries no usable GPS
	// fix. Defaults point at metro Manila.
	DefaultGpsLat      float64 `env:"DEFAULT_GPS_LAT" default:"14.5995"`
	DefaultGpsLng      float64 `env:"DEFAULT_GPS_LNG" default:"120.9842"`
	DefaultGpsAccuracy float64 `env:"DEFAULT_GPS_ACCURACY" default:"50000"`

	AlertCacheTTLSeconds int `env:"ALERT_CACHE_TTL_SECONDS" default:"5"`

	LogLevel []string `env:"LOG_LEVEL"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	_, err = env.UnmarshalFromEnviron(c)

	if err != nil {
		return errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

// AllowedExtensions splits the configured extension list.
func (c *Config) AllowedExtensions() []string {
	parts := strings.Split(c.UploadAllowedExts, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			exts = append(exts, p)
		}
	}
	return exts
}
