package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	MongoURI           string
	DBName             string
	Port               string
	AccessTokenSecret  string
	RefreshTokenSecret string
	CORSOrigin         string
	GinMode            string
	LogLevel           string
}

// Load reads configuration from the environment with development defaults.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("DB_NAME", "projectflow")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ACCESS_TOKEN_SECRET", "dev-access-secret-change-me")
	v.SetDefault("REFRESH_TOKEN_SECRET", "dev-refresh-secret-change-me")
	v.SetDefault("CORS_ORIGIN", "http://localhost:5173")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")

	return &Config{
		MongoURI:           v.GetString("MONGODB_URI"),
		DBName:             v.GetString("DB_NAME"),
		Port:               v.GetString("PORT"),
		AccessTokenSecret:  v.GetString("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: v.GetString("REFRESH_TOKEN_SECRET"),
		CORSOrigin:         v.GetString("CORS_ORIGIN"),
		GinMode:            v.GetString("GIN_MODE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
	}
}
