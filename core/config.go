package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		Build            string
		AppName          string
		SecretKey        string
		WorkDir          string
		FrontendBaseURL  string
		DefaultFromEmail string
		SendgridApiKey   string
		RollbarToken     string
		AdminEmail       string
		AdminPassword    string
		Server           ServerConfig
	}
)

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables (in increasing precedence).
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "TutorHub")
	v.SetDefault("secretKey", "2y#ml8=bp5_0b+a)9(e&o4kzx7j!w-qcg$vd3^ru6s%nfh1ti*")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("serverHost", "0.0.0.0:8000")
	v.SetDefault("serverDebugHost", "0.0.0.0:6060")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		WorkDir:          wd,
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		AdminEmail:       v.GetString("adminEmail"),
		AdminPassword:    v.GetString("adminPassword"),
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			DebugHost:                 v.GetString("serverDebugHost"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
	}
}

// NewTestConfig returns a Config suitable for unit tests; no files or
// environment variables are consulted.
func NewTestConfig() *Config {
	return &Config{
		Debug:            false,
		TestMode:         true,
		Env:              "TEST",
		AppName:          "TutorHub",
		SecretKey:        "test-secret-key",
		DefaultFromEmail: "noreply@test.local",
		FrontendBaseURL:  "http://localhost:3000",
		Server: ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: time.Hour,
		},
	}
}

// FromEmailAddress returns the default sender address.
func (c *Config) FromEmailAddress() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmail}
}
