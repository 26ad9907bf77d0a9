package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Booking  BookingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

// BookingConfig controls booking number issuing. SequenceBackend selects
// where the counters live: "postgres" (default) or "redis".
type BookingConfig struct {
	NumberFormat    string
	NumberPrefix    string
	SequenceLength  int
	SequenceBackend string
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	if postgresHost == "" {
		postgresHost = "localhost"
	}

	postgresPortStr := os.Getenv("POSTGRES_PORT")
	if postgresPortStr == "" {
		postgresPortStr = "5432"
	}

	postgresPort, err := strconv.Atoi(postgresPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid POSTGRES_PORT: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
	if postgresSSLMode == "" {
		postgresSSLMode = "disable"
	}

	postgresCfg := PostgresConfig{
		User:     postgresUser,
		Password: postgresPassword,
		Name:     postgresDB,
		Host:     postgresHost,
		Port:     postgresPort,
		SSLMode:  postgresSSLMode,
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisCfg := RedisConfig{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	}

	numberFormat := os.Getenv("BOOKING_NUMBER_FORMAT")
	if numberFormat == "" {
		numberFormat = "year_month_sequential"
	}

	numberPrefix := os.Getenv("BOOKING_NUMBER_PREFIX")
	if numberPrefix == "" {
		numberPrefix = "BK"
	}

	seqLenStr := os.Getenv("BOOKING_SEQUENCE_LENGTH")
	if seqLenStr == "" {
		seqLenStr = "3"
	}

	seqLen, err := strconv.Atoi(seqLenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid BOOKING_SEQUENCE_LENGTH: %w", op, err)
	}

	seqBackend := os.Getenv("BOOKING_SEQUENCE_BACKEND")
	if seqBackend == "" {
		seqBackend = "postgres"
	}
	if seqBackend != "postgres" && seqBackend != "redis" {
		return nil, fmt.Errorf("%s: invalid BOOKING_SEQUENCE_BACKEND %q", op, seqBackend)
	}

	bookingCfg := BookingConfig{
		NumberFormat:    numberFormat,
		NumberPrefix:    numberPrefix,
		SequenceLength:  seqLen,
		SequenceBackend: seqBackend,
	}

	return &Config{
		Server:   serverCfg,
		Postgres: postgresCfg,
		Redis:    redisCfg,
		Booking:  bookingCfg,
	}, nil
}
