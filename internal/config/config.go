package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fanbet/internal/platform/logging"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                          string
	ServiceName                     string
	ServiceVersion                  string
	HTTPAddr                        string
	ReadTimeout                     time.Duration
	WriteTimeout                    time.Duration
	LogLevel                        logging.Level
	LogFormat                       string
	CORSAllowedOrigins              []string
	StoreDriver                     string
	DBURL                           string
	DBDisablePreparedBinary         bool
	DBMaxOpenConns                  int
	CacheEnabled                    bool
	CacheTTL                        time.Duration
	SportsDataBaseURL               string
	SportsDataAPIKey                string
	SportsDataAPIHost               string
	SportsDataTimeout               time.Duration
	SportsDataMaxRetries            int
	SportsDataCacheTTL              time.Duration
	SportsDataCircuitEnabled        bool
	SportsDataCircuitFailureCount   int
	SportsDataCircuitOpenTimeout    time.Duration
	SportsDataCircuitHalfOpenMaxReq int
	CycleEnabled                    bool
	CycleSchedule                   string
	CycleGroupDelay                 time.Duration
	CycleRunOnStart                 bool
	ResolverMaxConcurrency          int
	RefresherPoolSize               int
	InternalJobToken                string
	UptraceEnabled                  bool
	UptraceDSN                      string
	PyroscopeEnabled                bool
	PyroscopeServerAddress          string
	PyroscopeAppName                string
	PyroscopeAuthToken              string
	PyroscopeBasicAuthUser          string
	PyroscopeBasicAuthPassword      string
	PyroscopeUploadRate             time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	logFormat := strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", logging.FormatJSON)))
	if logFormat != logging.FormatJSON && logFormat != logging.FormatConsole {
		return Config{}, fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", logFormat, logging.FormatJSON, logging.FormatConsole)
	}

	storeDriver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMemory)))
	if storeDriver != StoreMemory && storeDriver != StorePostgres {
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", storeDriver, StoreMemory, StorePostgres)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storeDriver == StorePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", StorePostgres)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	dbMaxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if dbMaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	sportsDataTimeout, err := time.ParseDuration(getEnv("SPORTSDATA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSDATA_TIMEOUT: %w", err)
	}
	if sportsDataTimeout <= 0 {
		return Config{}, fmt.Errorf("SPORTSDATA_TIMEOUT must be > 0")
	}
	sportsDataMaxRetries, err := getEnvAsInt("SPORTSDATA_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSDATA_MAX_RETRIES: %w", err)
	}
	if sportsDataMaxRetries < 0 {
		return Config{}, fmt.Errorf("SPORTSDATA_MAX_RETRIES must be >= 0")
	}
	sportsDataCacheTTL, err := time.ParseDuration(getEnv("SPORTSDATA_CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSDATA_CACHE_TTL: %w", err)
	}
	if sportsDataCacheTTL <= 0 {
		return Config{}, fmt.Errorf("SPORTSDATA_CACHE_TTL must be > 0")
	}
	sportsDataCircuitEnabled, err := strconv.ParseBool(getEnv("SPORTSDATA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSDATA_CIRCUIT_ENABLED: %w", err)
	}
	sportsDataCircuitFailureCount, err := getEnvAsInt("SPORTSDATA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSDATA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if sportsDataCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SPORTSDATA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	sportsDataCircuitOpenTimeout, err := time.ParseDuration(getEnv("SPORTSDATA_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSDATA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if sportsDataCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SPORTSDATA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	sportsDataCircuitHalfOpenMaxReq, err := getEnvAsInt("SPORTSDATA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSDATA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if sportsDataCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SPORTSDATA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cycleEnabled, err := strconv.ParseBool(getEnv("CYCLE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CYCLE_ENABLED: %w", err)
	}
	cycleGroupDelay, err := time.ParseDuration(getEnv("CYCLE_GROUP_DELAY", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CYCLE_GROUP_DELAY: %w", err)
	}
	if cycleGroupDelay < 0 {
		return Config{}, fmt.Errorf("CYCLE_GROUP_DELAY must be >= 0")
	}
	cycleRunOnStart, err := strconv.ParseBool(getEnv("CYCLE_RUN_ON_START", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CYCLE_RUN_ON_START: %w", err)
	}

	resolverMaxConcurrency, err := getEnvAsInt("RESOLVER_MAX_CONCURRENCY", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse RESOLVER_MAX_CONCURRENCY: %w", err)
	}
	if resolverMaxConcurrency < 1 {
		return Config{}, fmt.Errorf("RESOLVER_MAX_CONCURRENCY must be >= 1")
	}
	refresherPoolSize, err := getEnvAsInt("REFRESHER_POOL_SIZE", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESHER_POOL_SIZE: %w", err)
	}
	if refresherPoolSize < 1 {
		return Config{}, fmt.Errorf("REFRESHER_POOL_SIZE must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                          appEnv,
		ServiceName:                     getEnv("APP_SERVICE_NAME", "fanbet-api"),
		ServiceVersion:                  getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                        getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                     readTimeout,
		WriteTimeout:                    writeTimeout,
		LogLevel:                        logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:                       logFormat,
		CORSAllowedOrigins:              splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		StoreDriver:                     storeDriver,
		DBURL:                           dbURL,
		DBDisablePreparedBinary:         dbDisablePreparedBinary,
		DBMaxOpenConns:                  dbMaxOpenConns,
		CacheEnabled:                    cacheEnabled,
		CacheTTL:                        cacheTTL,
		SportsDataBaseURL:               strings.TrimSpace(getEnv("SPORTSDATA_BASE_URL", "https://v3.football.api-sports.io")),
		SportsDataAPIKey:                strings.TrimSpace(getEnv("SPORTSDATA_API_KEY", "")),
		SportsDataAPIHost:               strings.TrimSpace(getEnv("SPORTSDATA_API_HOST", "v3.football.api-sports.io")),
		SportsDataTimeout:               sportsDataTimeout,
		SportsDataMaxRetries:            sportsDataMaxRetries,
		SportsDataCacheTTL:              sportsDataCacheTTL,
		SportsDataCircuitEnabled:        sportsDataCircuitEnabled,
		SportsDataCircuitFailureCount:   sportsDataCircuitFailureCount,
		SportsDataCircuitOpenTimeout:    sportsDataCircuitOpenTimeout,
		SportsDataCircuitHalfOpenMaxReq: sportsDataCircuitHalfOpenMaxReq,
		CycleEnabled:                    cycleEnabled,
		CycleSchedule:                   strings.TrimSpace(getEnv("CYCLE_SCHEDULE", "@every 2h")),
		CycleGroupDelay:                 cycleGroupDelay,
		CycleRunOnStart:                 cycleRunOnStart,
		ResolverMaxConcurrency:          resolverMaxConcurrency,
		RefresherPoolSize:               refresherPoolSize,
		InternalJobToken:                strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		UptraceEnabled:                  uptraceEnabled,
		UptraceDSN:                      uptraceDSN,
		PyroscopeEnabled:                pyroscopeEnabled,
		PyroscopeServerAddress:          pyroscopeServerAddress,
		PyroscopeAuthToken:              strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:          strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:             pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.CycleEnabled && cfg.SportsDataAPIKey == "" {
		return Config{}, fmt.Errorf("SPORTSDATA_API_KEY is required when CYCLE_ENABLED=true")
	}
	if appEnv == EnvProd && cfg.InternalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when APP_ENV=%s", EnvProd)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
