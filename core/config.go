package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		DebugAddress    string
		ShutdownTimeout time.Duration
	}

	AuthConfig struct {
		TokenTTL time.Duration
		// DemoLogin accepts any well-formed credentials that match no stored user.
		DemoLogin bool
		// DemoRoles limits the roles a demo identity may take. Empty allows every role.
		DemoRoles []string
		// EnforceWrites gates every mutating endpoint; when off only notice publishing is gated.
		EnforceWrites bool
	}

	DatabaseConfig struct {
		Enabled       bool
		Engine        string
		Host          string
		Port          int
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Name          string
		DisableTLS    bool
		PingAttempts  int
	}

	OutpassConfig struct {
		StrictTransitions bool
	}

	LogConfig struct {
		File       string
		MaxSizeMB  int
		MaxBackups int
	}

	ClientConfig struct {
		BaseURL   string
		StorePath string
		Timeout   time.Duration
	}

	Config struct {
		Env             string
		Build           string
		Debug           bool
		TestMode        bool
		AppName         string
		SecretKey       string
		RollbarToken    string
		SendgridApiKey  string
		FrontendBaseURL string

		Server   ServerConfig
		Auth     AuthConfig
		Database DatabaseConfig
		Outpass  OutpassConfig
		Log      LogConfig
		Client   ClientConfig

		defaultFromEmail string
	}
)

func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
}

func (conf *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(conf.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: conf.AppName, Address: "noreply@localhost"}
	}
	return *addr
}

// NewConfig loads the configuration for the current ENV (DEV by default).
// Values come from the defaults below, then config/.env.<env> (if present), then the environment,
// with keys prefixed by ENV, e.g. DEV_DATABASE_HOST.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "SHMS")
	v.SetDefault("secretKey", "shms_dev_secret")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "SHMS <noreply@localhost>")
	v.SetDefault("frontendBaseURL", "http://localhost:4000")

	v.SetDefault("server.address", ":4000")
	v.SetDefault("server.debugAddress", ":4001")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("auth.tokenTTL", 8*time.Hour)
	v.SetDefault("auth.demoLogin", true)
	v.SetDefault("auth.demoRoles", []string{"student", "staff", "security", "admin"})
	v.SetDefault("auth.enforceWrites", true)

	v.SetDefault("database.enabled", true)
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.name", "smart_hostel")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.pingAttempts", 5)

	v.SetDefault("outpass.strictTransitions", false)

	v.SetDefault("log.file", "")
	v.SetDefault("log.maxSizeMB", 50)
	v.SetDefault("log.maxBackups", 3)

	v.SetDefault("client.baseURL", "http://localhost:4000")
	v.SetDefault("client.storePath", filepath.Join(os.TempDir(), "shms-client.db"))
	v.SetDefault("client.timeout", 5*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:             env,
		Build:           v.GetString("build"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		AppName:         v.GetString("appName"),
		SecretKey:       v.GetString("secretKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			DebugAddress:    v.GetString("server.debugAddress"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Auth: AuthConfig{
			TokenTTL:      v.GetDuration("auth.tokenTTL"),
			DemoLogin:     v.GetBool("auth.demoLogin"),
			DemoRoles:     v.GetStringSlice("auth.demoRoles"),
			EnforceWrites: v.GetBool("auth.enforceWrites"),
		},
		Database: DatabaseConfig{
			Enabled:       v.GetBool("database.enabled"),
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			Name:          v.GetString("database.name"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			PingAttempts:  v.GetInt("database.pingAttempts"),
		},
		Outpass: OutpassConfig{
			StrictTransitions: v.GetBool("outpass.strictTransitions"),
		},
		Log: LogConfig{
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.maxSizeMB"),
			MaxBackups: v.GetInt("log.maxBackups"),
		},
		Client: ClientConfig{
			BaseURL:   v.GetString("client.baseURL"),
			StorePath: v.GetString("client.storePath"),
			Timeout:   v.GetDuration("client.timeout"),
		},
		defaultFromEmail: v.GetString("defaultFromEmail"),
	}
}
