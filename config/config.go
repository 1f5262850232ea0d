package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Log      Log
	Database Database
	Storage  Storage
	Auth     Auth
	Analysis Analysis
}

type Server struct {
	Port           string
	GinMode        string
	PublicBaseURL  string
	MaxUploadBytes int64
}

type Log struct {
	Level  string
	Pretty bool
}

type Database struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string // sqlite file, ":memory:" allowed
}

type Storage struct {
	Driver          string // "gcs" or "local"
	Bucket          string
	CredentialsFile string
	SignerEmail     string
	LocalPath       string
	SignedURLTTL    time.Duration
}

type Auth struct {
	JWTSecret string
}

type Analysis struct {
	GeminiApiKey string
	GeminiModel  string
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("MAX_UPLOAD_BYTES", 10*1024*1024)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_PATH", "voicetrack.db")
	viper.SetDefault("STORAGE_DRIVER", "gcs")
	viper.SetDefault("LOCAL_STORAGE_PATH", "./data/objects")
	viper.SetDefault("SIGNED_URL_TTL", "168h")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Server.PublicBaseURL = viper.GetString("PUBLIC_BASE_URL")
	config.Server.MaxUploadBytes = viper.GetInt64("MAX_UPLOAD_BYTES")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Pretty = viper.GetBool("LOG_PRETTY")

	config.Database.Driver = viper.GetString("DATABASE_DRIVER")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Database.Path = viper.GetString("DATABASE_PATH")

	config.Storage.Driver = viper.GetString("STORAGE_DRIVER")
	config.Storage.Bucket = viper.GetString("GCS_BUCKET")
	config.Storage.CredentialsFile = viper.GetString("GCS_CREDENTIALS_FILE")
	config.Storage.SignerEmail = viper.GetString("GCS_SIGNER_EMAIL")
	config.Storage.LocalPath = viper.GetString("LOCAL_STORAGE_PATH")
	config.Storage.SignedURLTTL = viper.GetDuration("SIGNED_URL_TTL")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")

	config.Analysis.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.Analysis.GeminiModel = viper.GetString("GEMINI_MODEL")

	log.Info().
		Str("port", config.Server.Port).
		Str("db_driver", config.Database.Driver).
		Str("storage_driver", config.Storage.Driver).
		Bool("auth_configured", config.Auth.JWTSecret != "").
		Bool("analysis_configured", config.Analysis.GeminiApiKey != "").
		Msg("Config loaded")
	return &config, nil
}
