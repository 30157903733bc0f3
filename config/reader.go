package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type ConfigSchema struct {
	Client struct {
		BaseURL      string        `yaml:"base_url"`
		LoginPath    string        `yaml:"login_path"`
		PollInterval time.Duration `yaml:"poll_interval"`
	} `yaml:"client"`
	Backend struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		MediaDir string `yaml:"media_dir"`
		Gzip     bool   `yaml:"gzip"`
	} `yaml:"backend"`
	Databases struct {
		// Driver is "sqlite" or "postgres".
		Driver   string     `yaml:"driver"`
		Path     string     `yaml:"path"`
		Master   DBConfig   `yaml:"master"`
		Replicas []DBConfig `yaml:"replicas"`
	} `yaml:"db"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	RabbitMQ struct {
		URL   string `yaml:"url"`
		Queue string `yaml:"queue"`
	} `yaml:"rabbitmq"`
	Logs struct {
		Level string `yaml:"level"`
	} `yaml:"logs"`
}

// Default returns the configuration used when no file is given: a local sqlite
// database, in-process sessions and events, and a client pointed at localhost.
func Default() *ConfigSchema {
	conf := &ConfigSchema{}
	conf.Client.BaseURL = "http://localhost:8000/api"
	conf.Client.LoginPath = "/login"
	conf.Client.PollInterval = 30 * time.Second
	conf.Backend.Host = "0.0.0.0"
	conf.Backend.Port = 8000
	conf.Backend.MediaDir = "media"
	conf.Databases.Driver = "sqlite"
	conf.Databases.Path = "socialbook.db"
	conf.Redis.Port = 6379
	conf.RabbitMQ.Queue = "notification_push_queue"
	conf.Logs.Level = "info"
	return conf
}

func LoadConfig(filePath string) (*ConfigSchema, error) {
	conf := Default()
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		if err = yaml.Unmarshal(data, conf); err != nil {
			return nil, err
		}
	}
	applyEnv(conf)
	return conf, nil
}

// applyEnv lets deployments and tests override the file without editing it.
func applyEnv(conf *ConfigSchema) {
	if v := os.Getenv("SOCIALBOOK_BASE_URL"); v != "" {
		conf.Client.BaseURL = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		conf.Databases.Driver = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		conf.Databases.Path = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		conf.Databases.Master.Host = v
	}
	if v, err := strconv.Atoi(os.Getenv("DB_PORT")); err == nil {
		conf.Databases.Master.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		conf.Databases.Master.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		conf.Databases.Master.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		conf.Databases.Master.DBName = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		conf.Redis.Host = v
	}
	if v, err := strconv.Atoi(os.Getenv("REDIS_PORT")); err == nil {
		conf.Redis.Port = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		conf.RabbitMQ.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		conf.Logs.Level = v
	}
}
