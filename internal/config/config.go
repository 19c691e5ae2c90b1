package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Gateway struct {
		BaseURL       string `yaml:"base_url"`
		KeyID         string `yaml:"key_id"`
		KeySecret     string `yaml:"key_secret"`
		WebhookSecret string `yaml:"webhook_secret"`
		CallbackURL   string `yaml:"callback_url"`
	} `yaml:"gateway"`
	Auth struct {
		SigningKey string `yaml:"signing_key"`
	} `yaml:"auth"`
	Mail struct {
		SendgridKey string `yaml:"sendgrid_key"`
		FromName    string `yaml:"from_name"`
		FromAddr    string `yaml:"from_addr"`
	} `yaml:"mail"`
	Firebase struct {
		CredentialsFile string `yaml:"credentials_file"`
	} `yaml:"firebase"`
}

func LoadConfig() Config {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		log.Fatalf("Failed to unmarshal config data: %v", err)
	}
	return cfg
}
