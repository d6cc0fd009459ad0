package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Server struct {
	Addr string
	Mode string
}

type API struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type Media struct {
	S3Bucket   string
	S3Region   string
	PresignTTL time.Duration
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	Server         Server
	API            API
	Media          Media
	Log            Log
	StoragePath    string
	UploadMaxBytes int64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1:3000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("api.user_agent", "video-portal/1.0")
	v.SetDefault("storage.path", "portal.db")
	v.SetDefault("upload.max_bytes", int64(500<<20))
	v.SetDefault("media.s3_region", "us-east-1")
	v.SetDefault("media.presign_ttl", "15m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads config.yaml from the usual locations. A missing file is fine,
// defaults and VIDEOPORTAL_* environment variables still apply.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"cmd/config/", "./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("videoportal")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "read config")
		}
	}

	cfg := &Config{
		Server: Server{
			Addr: v.GetString("server.addr"),
			Mode: v.GetString("server.mode"),
		},
		API: API{
			BaseURL:   strings.TrimRight(v.GetString("api.base_url"), "/"),
			Timeout:   v.GetDuration("api.timeout"),
			UserAgent: v.GetString("api.user_agent"),
		},
		Media: Media{
			S3Bucket:   v.GetString("media.s3_bucket"),
			S3Region:   v.GetString("media.s3_region"),
			PresignTTL: v.GetDuration("media.presign_ttl"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		StoragePath:    v.GetString("storage.path"),
		UploadMaxBytes: v.GetInt64("upload.max_bytes"),
	}

	if cfg.API.BaseURL == "" {
		return nil, errors.New("api.base_url must not be empty")
	}
	if cfg.UploadMaxBytes <= 0 {
		return nil, errors.Errorf("upload.max_bytes must be positive, got %d", cfg.UploadMaxBytes)
	}
	return cfg, nil
}
