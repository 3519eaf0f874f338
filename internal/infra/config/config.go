package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Границы open_period для опросов Telegram
const (
	minQuestionTime = 5 * time.Second
	maxQuestionTime = 600 * time.Second
)

type Server struct {
	Host string `yaml:"host" env:"HTTP_HOST"`
	Port string `yaml:"port" env:"HTTP_PORT"`
}

type TelegramBot struct {
	Token       string        `yaml:"token" env:"BOT_TOKEN"`
	AdminIDs    []int64       `yaml:"admin_ids" env:"ADMIN_ID" envSeparator:","`
	ProxyURL    string        `yaml:"proxy_url" env:"PROXY_URL"`
	PollTimeout time.Duration `yaml:"poll_timeout" env:"BOT_POLL_TIMEOUT"`
}

type Quiz struct {
	DataDir      string        `yaml:"data_dir" env:"QUIZ_DATA_DIR"`
	QuestionTime time.Duration `yaml:"question_time" env:"QUIZ_QUESTION_TIME"`
	GracePeriod  time.Duration `yaml:"grace_period" env:"QUIZ_GRACE_PERIOD"`
	SectionSize  int           `yaml:"section_size" env:"QUIZ_SECTION_SIZE"`
}

type Database struct {
	Host     string `yaml:"host" env:"PG_HOST"`
	Port     string `yaml:"port" env:"PG_PORT"`
	User     string `yaml:"user" env:"PG_USER"`
	Password string `yaml:"password" env:"PG_PASSWORD"`
	Name     string `yaml:"dbname" env:"PG_DATABASE"`
	SSLMode  string `yaml:"sslmode" env:"PG_SSL_MODE"`
}

// Enabled архив результатов включается, когда задан хост базы
func (d Database) Enabled() bool {
	return d.Host != ""
}

// DSN строка подключения для pgx
func (d Database) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_NAME_TTL"`
}

// Enabled кэш имен в Redis используется, когда задан адрес
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

type Config struct {
	Server      Server      `yaml:"server"`
	TelegramBot TelegramBot `yaml:"telegram_bot"`
	Quiz        Quiz        `yaml:"quiz"`
	Database    Database    `yaml:"database"`
	Redis       Redis       `yaml:"redis"`
	Log         Log         `yaml:"log"`
}

// Default конфигурация без файла и окружения
func Default() *Config {
	return &Config{
		Server: Server{Host: "0.0.0.0", Port: "8080"},
		TelegramBot: TelegramBot{
			PollTimeout: 10 * time.Second,
		},
		Quiz: Quiz{
			DataDir:      "data/subjects",
			QuestionTime: 10 * time.Second,
			GracePeriod:  2 * time.Second,
			SectionSize:  50,
		},
		Database: Database{Port: "5432", SSLMode: "disable"},
		Log:      Log{Level: "info", Format: "pretty"},
	}
}

// LoadConfig собирает и проверяет конфигурацию бота
func LoadConfig(filename string) (*Config, error) {
	const op = "config.LoadConfig"

	cfg, err := Read(filename)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// Read собирает конфигурацию без проверки: значения по умолчанию, затем YAML файл (если filename не пуст),
// затем .env и переменные окружения. Нужен командам, которым не требуется токен бота.
func Read(filename string) (*Config, error) {
	const op = "config.Read"

	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read config file: %w", op, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: failed to load .env: %w", op, err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse environment: %w", op, err)
	}

	return cfg, nil
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.TelegramBot.Token) == "" {
		errs = append(errs, errors.New("telegram_bot.token (BOT_TOKEN) is required"))
	}
	if c.Quiz.QuestionTime < minQuestionTime || c.Quiz.QuestionTime > maxQuestionTime {
		errs = append(errs, fmt.Errorf("quiz.question_time must be within %s..%s, got %s", minQuestionTime, maxQuestionTime, c.Quiz.QuestionTime))
	}
	if c.Quiz.GracePeriod < 0 {
		errs = append(errs, fmt.Errorf("quiz.grace_period must not be negative, got %s", c.Quiz.GracePeriod))
	}
	if c.Quiz.SectionSize < 1 {
		errs = append(errs, fmt.Errorf("quiz.section_size must be positive, got %d", c.Quiz.SectionSize))
	}
	if c.Quiz.DataDir == "" {
		errs = append(errs, errors.New("quiz.data_dir is required"))
	}

	return errors.Join(errs...)
}

// Proxy адрес прокси для клиента бота. Пустой или закомментированный адрес игнорируется.
func (t TelegramBot) Proxy() (*url.URL, error) {
	raw := strings.TrimSpace(t.ProxyURL)
	if raw == "" || strings.HasPrefix(raw, "#") || !strings.Contains(raw, "://") {
		return nil, nil
	}
	return url.Parse(raw)
}

// IsAdmin проверяет, входит ли пользователь в список администраторов
func (t TelegramBot) IsAdmin(userID int64) bool {
	for _, id := range t.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
