package configuration

import (
	"time"
)

type Properties struct {
	App         AppConfigurationProperties         `yaml:"app"`
	Mongo       MongoConfigurationProperties       `yaml:"mongo"`
	Credentials CredentialsConfigurationProperties `yaml:"credentials"`
	Metrics     MetricsConfigurationProperties     `yaml:"metrics"`
}

type AppConfigurationProperties struct {
	Profile  string `yaml:"profile"`
	LogLevel string `yaml:"log-level"`
}

type MongoConfigurationProperties struct {
	DefaultPort            int           `yaml:"default-port"`
	ConnectTimeout         time.Duration `yaml:"connect-timeout"`
	ServerSelectionTimeout time.Duration `yaml:"server-selection-timeout"`
	AuthSource             string        `yaml:"auth-source"`
	AuthMechanism          string        `yaml:"auth-mechanism"`
	DriverLogLevel         string        `yaml:"driver-log-level"`
}

type CredentialsConfigurationProperties struct {
	File    string `yaml:"file"`
	Section string `yaml:"section"`
}

type MetricsConfigurationProperties struct {
	PushGateway string        `yaml:"push-gateway"`
	Job         string        `yaml:"job"`
	PushTimeout time.Duration `yaml:"push-timeout"`
}

func Defaults() *Properties {
	return &Properties{
		App: AppConfigurationProperties{
			LogLevel: "info",
		},
		Mongo: MongoConfigurationProperties{
			DefaultPort:            27017,
			ConnectTimeout:         10 * time.Second,
			ServerSelectionTimeout: 10 * time.Second,
			AuthSource:             "admin",
			DriverLogLevel:         "off",
		},
		Credentials: CredentialsConfigurationProperties{
			File:    "~/.mongodb.cnf",
			Section: "client",
		},
		Metrics: MetricsConfigurationProperties{
			Job:         "replsync",
			PushTimeout: 5 * time.Second,
		},
	}
}
