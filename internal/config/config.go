package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Драйверы хранилища
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Драйверы блокировок
const (
	LockMemory = "memory"
	LockRedis  = "redis"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logs     LogsConfig     `toml:"logs"`
	Storage  StorageConfig  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
	Lock     LockConfig     `toml:"lock"`
	Redis    RedisConfig    `toml:"redis"`
	Kafka    KafkaConfig    `toml:"kafka"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Salon    SalonConfig    `toml:"salon"`
	Sweep    SweepConfig    `toml:"sweep"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type StorageConfig struct {
	Driver string `toml:"driver"` // memory | postgres
	Seed   bool   `toml:"seed"`   // заполнить каталог демо-данными (только memory)
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

type LockConfig struct {
	Driver        string `toml:"driver"`          // memory | redis
	TTL           int    `toml:"ttl_ms"`          // миллисекунды
	RetryInterval int    `toml:"retry_ms"`        // миллисекунды
	WaitTimeout   int    `toml:"wait_timeout_ms"` // миллисекунды, ожидание блокировки при бронировании
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type KafkaConfig struct {
	Enabled      bool     `toml:"enabled"`
	Brokers      []string `toml:"brokers"`
	TopicPrefix  string   `toml:"topic_prefix"`
	WriteTimeout int      `toml:"write_timeout"` // секунды
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type SalonConfig struct {
	Timezone                string   `toml:"timezone"`
	OpenTime                string   `toml:"open_time"`
	CloseTime               string   `toml:"close_time"`
	SlotStepMinutes         int      `toml:"slot_step_minutes"`
	ClosedWeekdays          []string `toml:"closed_weekdays"`
	AdvanceBookingDays      int      `toml:"advance_booking_days"`
	MinBookingNoticeMinutes int      `toml:"min_booking_notice_minutes"`
}

type SweepConfig struct {
	Enabled  bool `toml:"enabled"`
	Interval int  `toml:"interval"` // секунды
}

// Load загружает конфигурацию из toml-файла
// Секреты переопределяются переменными окружения (DB_PASSWORD, REDIS_PASSWORD), .env подгружается при наличии
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	// .env не обязателен
	_ = godotenv.Load()
	cfg.applyEnv()

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMemory
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Lock.Driver == "" {
		c.Lock.Driver = LockMemory
	}
	if c.Lock.WaitTimeout == 0 {
		c.Lock.WaitTimeout = 3000
	}
	if c.Kafka.TopicPrefix == "" {
		c.Kafka.TopicPrefix = "booking"
	}
	if c.Kafka.WriteTimeout == 0 {
		c.Kafka.WriteTimeout = 5
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "salonbooking"
	}
	if c.Salon.Timezone == "" {
		c.Salon.Timezone = "UTC"
	}
	if c.Salon.OpenTime == "" {
		c.Salon.OpenTime = domain.DefaultOpenTime
	}
	if c.Salon.CloseTime == "" {
		c.Salon.CloseTime = domain.DefaultCloseTime
	}
	if c.Salon.SlotStepMinutes == 0 {
		c.Salon.SlotStepMinutes = domain.DefaultSlotStepMinutes
	}
	if c.Sweep.Interval == 0 {
		c.Sweep.Interval = 60
	}
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	switch c.Lock.Driver {
	case LockMemory:
	case LockRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for redis lock", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown lock driver %q", ErrInvalidConfig, c.Lock.Driver)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("%w: kafka.brokers is required when kafka is enabled", ErrInvalidConfig)
	}

	if _, err := c.Salon.BusinessHours(); err != nil {
		return err
	}

	return nil
}

// Location часовой пояс салона
func (c SalonConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// BusinessHours собирает доменную конфигурацию рабочих часов
func (c SalonConfig) BusinessHours() (domain.BusinessHours, error) {
	open, err := types.NewTimeStringFromString(c.OpenTime)
	if err != nil {
		return domain.BusinessHours{}, fmt.Errorf("%w: open_time: %v", ErrInvalidConfig, err)
	}
	closeAt, err := types.NewTimeStringFromString(c.CloseTime)
	if err != nil {
		return domain.BusinessHours{}, fmt.Errorf("%w: close_time: %v", ErrInvalidConfig, err)
	}
	if !open.IsBefore(closeAt) {
		return domain.BusinessHours{}, fmt.Errorf("%w: open_time must be before close_time", ErrInvalidConfig)
	}

	if c.SlotStepMinutes < domain.MinSlotStepMinutes || c.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return domain.BusinessHours{}, fmt.Errorf("%w: slot_step_minutes must be between %d and %d",
			ErrInvalidConfig, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}
	if c.AdvanceBookingDays < 0 || c.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return domain.BusinessHours{}, fmt.Errorf("%w: advance_booking_days must be between 0 and %d",
			ErrInvalidConfig, domain.MaxAdvanceBookingDays)
	}
	if c.MinBookingNoticeMinutes < 0 || c.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return domain.BusinessHours{}, fmt.Errorf("%w: min_booking_notice_minutes must be between 0 and %d",
			ErrInvalidConfig, domain.MaxBookingNoticeMinutes)
	}

	closed := make([]time.Weekday, 0, len(c.ClosedWeekdays))
	for _, name := range c.ClosedWeekdays {
		wd, ok := parseWeekday(name)
		if !ok {
			return domain.BusinessHours{}, fmt.Errorf("%w: unknown weekday %q", ErrInvalidConfig, name)
		}
		closed = append(closed, wd)
	}

	return domain.BusinessHours{
		Open:                    open,
		Close:                   closeAt,
		SlotStepMinutes:         c.SlotStepMinutes,
		ClosedWeekdays:          closed,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
	}, nil
}

func parseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := strings.ToLower(wd.String())
		if name == full || name == full[:3] {
			return wd, true
		}
	}
	return 0, false
}
