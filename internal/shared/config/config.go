package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the full project configuration, shared by all services.
type Config struct {
	Database DBConfig
	RabbitMQ MQConfig
	Redis    RedisConfig
	Services ServicesConfig
	JWT      JWTConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type MQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ServicesConfig struct {
	OrderServicePort  int
	DriverServicePort int
	AdminServicePort  int
}

type JWTConfig struct {
	Secret        string
	ExpiryMinutes int
}

// Load reads flat YAML files from CONFIG_DIR (default ./config);
// environment variables override file values, defaults fill the gaps.
func Load() Config {
	configDir := getEnv("CONFIG_DIR", "./config")
	cfg := Config{}

	dbKV := parseYAMLOrNil(filepath.Join(configDir, "db.yaml"))
	cfg.Database.Host = pick("DB_HOST", dbKV, "host", "localhost")
	cfg.Database.Port = pickInt("DB_PORT", dbKV, "port", 5432)
	cfg.Database.User = pick("DB_USER", dbKV, "user", "tewsilty_user")
	cfg.Database.Password = pick("DB_PASSWORD", dbKV, "password", "tewsilty_pass")
	cfg.Database.Database = pick("DB_NAME", dbKV, "database", "tewsilty_db")
	cfg.Database.SSLMode = pick("DB_SSLMODE", dbKV, "sslmode", "disable")

	mqKV := parseYAMLOrNil(filepath.Join(configDir, "mq.yaml"))
	cfg.RabbitMQ.Host = pick("RABBITMQ_HOST", mqKV, "host", "localhost")
	cfg.RabbitMQ.Port = pickInt("RABBITMQ_PORT", mqKV, "port", 5672)
	cfg.RabbitMQ.User = pick("RABBITMQ_USER", mqKV, "user", "guest")
	cfg.RabbitMQ.Password = pick("RABBITMQ_PASSWORD", mqKV, "password", "guest")
	cfg.RabbitMQ.VHost = pick("RABBITMQ_VHOST", mqKV, "vhost", "/")

	redisKV := parseYAMLOrNil(filepath.Join(configDir, "redis.yaml"))
	cfg.Redis.Addr = pick("REDIS_ADDR", redisKV, "addr", "localhost:6379")
	cfg.Redis.Password = pick("REDIS_PASSWORD", redisKV, "password", "")
	cfg.Redis.DB = pickInt("REDIS_DB", redisKV, "db", 0)

	svcKV := parseYAMLOrNil(filepath.Join(configDir, "service.yaml"))
	cfg.Services.OrderServicePort = pickInt("ORDER_SERVICE_PORT", svcKV, "order_service", 3000)
	cfg.Services.DriverServicePort = pickInt("DRIVER_SERVICE_PORT", svcKV, "driver_service", 3001)
	cfg.Services.AdminServicePort = pickInt("ADMIN_SERVICE_PORT", svcKV, "admin_service", 3004)

	jwtKV := parseYAMLOrNil(filepath.Join(configDir, "jwt.yaml"))
	cfg.JWT.Secret = pick("JWT_SECRET", jwtKV, "secret", "dev_secret")
	cfg.JWT.ExpiryMinutes = pickInt("JWT_EXPIRY_MINUTES", jwtKV, "expiry_minutes", 60)

	return cfg
}

// parseYAML reads a flat "key: value" YAML file. Nested sections are
// flattened into "section.key" entries. Anything fancier belongs in env.
func parseYAML(path string) (map[string]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result := map[string]string{}
	section := ""

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			section = strings.TrimSuffix(line, ":")
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if section != "" {
			key = section + "." + key
		}
		result[key] = val
	}

	return result, sc.Err()
}

func parseYAMLOrNil(path string) map[string]string {
	kv, err := parseYAML(path)
	if err != nil {
		return nil
	}
	return kv
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// pick resolves env > yaml > default.
func pick(envKey string, yaml map[string]string, key, def string) string {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	if v, ok := yaml[key]; ok && v != "" {
		return v
	}
	return def
}

func pickInt(envKey string, yaml map[string]string, key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if v, ok := yaml[key]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// DSN returns the database connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// AMQPURL returns the RabbitMQ connection URL.
func (c MQConfig) AMQPURL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}
