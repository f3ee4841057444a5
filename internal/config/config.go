package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the portal service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	TokenTTL               time.Duration
	AdminUsername          string
	AdminPassword          string
	ModulesDir             string
	SeminarDir             string
	CourseCode             string
	CourseTitle            string
	ExamDuration           time.Duration
	ClassworkWindow        time.Duration
	LectureDuration        time.Duration
	ClassworkReveal        time.Duration
	SeminarOpenMonth       time.Month
	SeminarOpenDay         int
	StatsCacheTTL          time.Duration
	EventChannel           string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PORTAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Course Portal API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.url", "file:portal.db")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "bimpe2025class")
	v.SetDefault("token.ttl", "12h")
	v.SetDefault("modules.dir", "modules")
	v.SetDefault("seminar.dir", "modules/seminars")
	v.SetDefault("course.code", "BIO 203")
	v.SetDefault("course.title", "General Physiology")
	v.SetDefault("exam.duration", "30m")
	v.SetDefault("classwork.window", "20m")
	v.SetDefault("lecture.duration", "60m")
	v.SetDefault("classwork.reveal", "20m")
	v.SetDefault("seminar.open_month", 10)
	v.SetDefault("seminar.open_day", 20)
	v.SetDefault("stats.cache_ttl", "5m")
	v.SetDefault("event.channel", "portal")
	v.SetDefault("cloudinary.folder", "portal/uploads")

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		AdminUsername:          v.GetString("admin.username"),
		AdminPassword:          v.GetString("admin.password"),
		ModulesDir:             v.GetString("modules.dir"),
		SeminarDir:             v.GetString("seminar.dir"),
		CourseCode:             v.GetString("course.code"),
		CourseTitle:            v.GetString("course.title"),
		SeminarOpenMonth:       time.Month(v.GetInt("seminar.open_month")),
		SeminarOpenDay:         v.GetInt("seminar.open_day"),
		EventChannel:           v.GetString("event.channel"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"token.ttl", &cfg.TokenTTL},
		{"exam.duration", &cfg.ExamDuration},
		{"classwork.window", &cfg.ClassworkWindow},
		{"lecture.duration", &cfg.LectureDuration},
		{"classwork.reveal", &cfg.ClassworkReveal},
		{"stats.cache_ttl", &cfg.StatsCacheTTL},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.target = parsed
	}

	if cfg.SeminarOpenMonth < time.January || cfg.SeminarOpenMonth > time.December {
		return Config{}, fmt.Errorf("invalid seminar open month: %d", cfg.SeminarOpenMonth)
	}

	return cfg, nil
}
