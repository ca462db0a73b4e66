package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
	DryRun     bool   `yaml:"dry_run"`
}

type OTPConfig struct {
	TTLMinutes           int `yaml:"ttl_minutes"`
	PurgeIntervalMinutes int `yaml:"purge_interval_minutes"`
}

type FilesConfig struct {
	RootDir string `yaml:"root_dir"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	JWT struct {
		Secret     string `yaml:"secret"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"jwt"`
	Twilio TwilioConfig `yaml:"twilio"`
	OTP    OTPConfig    `yaml:"otp"`
	Files  FilesConfig  `yaml:"files"`
}

func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.JWT.TTLMinutes <= 0 {
		cfg.JWT.TTLMinutes = 24 * 60
	}
	if cfg.OTP.TTLMinutes <= 0 {
		cfg.OTP.TTLMinutes = 10
	}
	if cfg.OTP.PurgeIntervalMinutes <= 0 {
		cfg.OTP.PurgeIntervalMinutes = 15
	}
	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	return &cfg
}

// OTPTTL returns the configured code lifetime as a duration.
func (c *Config) OTPTTL() time.Duration {
	return time.Duration(c.OTP.TTLMinutes) * time.Minute
}
