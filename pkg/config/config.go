package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Solver    SolverConfig
	Timetable TimetableConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig points at the external timetable solver service.
type SolverConfig struct {
	BaseURL       string
	Timeout       time.Duration
	HealthTimeout time.Duration
}

// TimetableConfig carries generation defaults; requests may override them.
type TimetableConfig struct {
	NumDays            int
	PeriodsPerDay      int
	MaxDailyPerBatch   int
	OneSubjectPerDay   bool
	RotateStart        bool
	RandomizeWithinDay bool
	SnapshotTTL        time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Solver = SolverConfig{
		BaseURL:       strings.TrimRight(v.GetString("SOLVER_BASE_URL"), "/"),
		Timeout:       parseDuration(v.GetString("SOLVER_TIMEOUT"), 30*time.Second),
		HealthTimeout: parseDuration(v.GetString("SOLVER_HEALTH_TIMEOUT"), 2*time.Second),
	}

	cfg.Timetable = TimetableConfig{
		NumDays:            v.GetInt("TIMETABLE_NUM_DAYS"),
		PeriodsPerDay:      v.GetInt("TIMETABLE_PERIODS_PER_DAY"),
		MaxDailyPerBatch:   v.GetInt("TIMETABLE_MAX_DAILY_PER_BATCH"),
		OneSubjectPerDay:   v.GetBool("TIMETABLE_ONE_SUBJECT_PER_DAY"),
		RotateStart:        v.GetBool("TIMETABLE_ROTATE_START"),
		RandomizeWithinDay: v.GetBool("TIMETABLE_RANDOMIZE_WITHIN_DAY"),
		SnapshotTTL:        parseDuration(v.GetString("TIMETABLE_SNAPSHOT_TTL"), 24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "classroom_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOLVER_BASE_URL", "http://localhost:8000")
	v.SetDefault("SOLVER_TIMEOUT", "30s")
	v.SetDefault("SOLVER_HEALTH_TIMEOUT", "2s")

	v.SetDefault("TIMETABLE_NUM_DAYS", 5)
	v.SetDefault("TIMETABLE_PERIODS_PER_DAY", 6)
	v.SetDefault("TIMETABLE_MAX_DAILY_PER_BATCH", 3)
	v.SetDefault("TIMETABLE_ONE_SUBJECT_PER_DAY", true)
	v.SetDefault("TIMETABLE_ROTATE_START", true)
	v.SetDefault("TIMETABLE_RANDOMIZE_WITHIN_DAY", true)
	v.SetDefault("TIMETABLE_SNAPSHOT_TTL", "24h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
