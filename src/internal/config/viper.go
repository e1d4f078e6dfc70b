package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App          AppSection         `mapstructure:"app"`
	Web          WebConfig          `mapstructure:"web"`
	Log          LogConfig          `mapstructure:"log"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Razorpay     RazorpayConfig     `mapstructure:"razorpay"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Notification NotificationConfig `mapstructure:"notification"`
}

type AppSection struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type WebConfig struct {
	Port         int           `mapstructure:"port"`
	Prefork      bool          `mapstructure:"prefork"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	UseTLS      bool   `mapstructure:"use_tls"`
	UseCluster  bool   `mapstructure:"use_cluster"`
	ClusterNode string `mapstructure:"cluster_node"`
}

type KafkaConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Brokers      []string `mapstructure:"brokers"`
	ClientID     string   `mapstructure:"client_id"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	PaymentTopic string   `mapstructure:"payment_topic"`
}

type RazorpayConfig struct {
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
	Currency  string `mapstructure:"currency"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type NotificationConfig struct {
	Queue       string         `mapstructure:"queue"`
	MaxRetry    int            `mapstructure:"max_retry"`
	Concurrency int            `mapstructure:"concurrency"`
	SMTP        SMTPConfig     `mapstructure:"smtp"`
	WhatsApp    WhatsAppConfig `mapstructure:"whatsapp"`
}

type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Sender   string `mapstructure:"sender"`
}

type WhatsAppConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	BaseURL    string        `mapstructure:"base_url"`
	AccountSID string        `mapstructure:"account_sid"`
	AuthToken  string        `mapstructure:"auth_token"`
	From       string        `mapstructure:"from"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// NewViper reads config.yaml when present; KOTIDHAM_* environment variables override it.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/kotidham")

	v.SetEnvPrefix("KOTIDHAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "KOTIDHAM_SERVICE")
	v.SetDefault("app.env", "development")
	v.SetDefault("web.port", 8080)
	v.SetDefault("web.read_timeout", "15s")
	v.SetDefault("web.write_timeout", "15s")
	v.SetDefault("log.level", "DEBUG")

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "kotidham")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.use_tls", false)
	v.SetDefault("redis.use_cluster", false)
	v.SetDefault("redis.cluster_node", "")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("kafka.client_id", "kotidham-service")
	v.SetDefault("kafka.username", "")
	v.SetDefault("kafka.password", "")
	v.SetDefault("kafka.payment_topic", "kotidham.payments")

	v.SetDefault("razorpay.key_id", "")
	v.SetDefault("razorpay.key_secret", "")
	v.SetDefault("razorpay.currency", "INR")

	v.SetDefault("jwt.secret", "")

	v.SetDefault("notification.queue", "notifications")
	v.SetDefault("notification.max_retry", 3)
	v.SetDefault("notification.concurrency", 5)
	v.SetDefault("notification.smtp.enabled", false)
	v.SetDefault("notification.smtp.host", "")
	v.SetDefault("notification.smtp.port", 587)
	v.SetDefault("notification.smtp.username", "")
	v.SetDefault("notification.smtp.password", "")
	v.SetDefault("notification.smtp.sender", "")
	v.SetDefault("notification.whatsapp.enabled", false)
	v.SetDefault("notification.whatsapp.base_url", "https://api.twilio.com")
	v.SetDefault("notification.whatsapp.account_sid", "")
	v.SetDefault("notification.whatsapp.auth_token", "")
	v.SetDefault("notification.whatsapp.from", "")
	v.SetDefault("notification.whatsapp.timeout", "10s")
}

// LoadAppConfig unmarshals v into the struct every constructor takes.
func LoadAppConfig(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret is required")
	}
	return cfg, nil
}
