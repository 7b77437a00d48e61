package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type AcquirerConfig struct {
	URL            string        `mapstructure:"url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	HealthURL      string        `mapstructure:"health_url"`
	HealthInterval time.Duration `mapstructure:"health_interval"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	JaegerURL   string `mapstructure:"jaeger_url"`
}

type AppConfig struct {
	Server    *ServerConfig    `mapstructure:"server"`
	Acquirer  *AcquirerConfig  `mapstructure:"acquirer"`
	Telemetry *TelemetryConfig `mapstructure:"telemetry"`
}

func LoadConfig() (*AppConfig, error) {

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("acquirer.url", "http://localhost:8080/payments")
	viper.SetDefault("acquirer.timeout", 5*time.Second)
	viper.SetDefault("acquirer.health_url", "")
	viper.SetDefault("acquirer.health_interval", 5*time.Second)
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.service_name", "payment-gateway")
	viper.SetDefault("telemetry.jaeger_url", "http://jaeger:14268/api/traces")

	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.host", "SERVER_HOST")
	_ = viper.BindEnv("acquirer.url", "ACQUIRER_URL")
	_ = viper.BindEnv("acquirer.timeout", "ACQUIRER_TIMEOUT")
	_ = viper.BindEnv("acquirer.health_url", "ACQUIRER_HEALTH_URL")
	_ = viper.BindEnv("acquirer.health_interval", "ACQUIRER_HEALTH_INTERVAL")
	_ = viper.BindEnv("telemetry.enabled", "TELEMETRY_ENABLED")
	_ = viper.BindEnv("telemetry.service_name", "TELEMETRY_SERVICE_NAME")
	_ = viper.BindEnv("telemetry.jaeger_url", "JAEGER_URL")

	var config AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}
