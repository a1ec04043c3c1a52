// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml
// over it and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return decode(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// Zero is a valid temperature; default only absent keys.
	v.SetDefault("assistant.chat_temperature", 0.3)
	v.SetDefault("assistant.retry_temperature", 0.1)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found between the working directory and
// the module root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env", // test/e2e
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets that are usually only present in the environment.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty := func(dst *string, envKeys ...string) {
		if *dst != "" {
			return
		}
		for _, key := range envKeys {
			if val := os.Getenv(key); val != "" {
				*dst = val
				return
			}
		}
	}

	switch cfg.Completion.Provider {
	case "gemini":
		setIfEmpty(&cfg.Completion.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	default:
		setIfEmpty(&cfg.Completion.APIKey, "GROQ_API_KEY")
	}

	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Database.Redis.Password, "REDIS_PASSWORD")
	setIfEmpty(&cfg.Audit.SNSTopicARN, "AUDIT_SNS_TOPIC_ARN")
	setIfEmpty(&cfg.Audit.Region, "AWS_REGION")
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "bitsa-assistant"
	}

	// Camunda defaults
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	// Database defaults
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if cfg.RecordStore.Backend == "" {
		cfg.RecordStore.Backend = BackendPostgres
	}
	if cfg.RecordStore.IndexPrefix == "" {
		cfg.RecordStore.IndexPrefix = "bitsa"
	}

	// Completion defaults
	if cfg.Completion.Provider == "" {
		cfg.Completion.Provider = "groq"
	}
	if cfg.Completion.Timeout == 0 {
		cfg.Completion.Timeout = 60000
	}

	// Assistant defaults
	if cfg.Assistant.ChatMaxTokens == 0 {
		cfg.Assistant.ChatMaxTokens = 1024
	}
	if cfg.Assistant.TargetedLimit == 0 {
		cfg.Assistant.TargetedLimit = 5
	}
	if cfg.Assistant.BroadLimit == 0 {
		cfg.Assistant.BroadLimit = 10
	}
	if cfg.Assistant.ReportLimit == 0 {
		cfg.Assistant.ReportLimit = 3
	}
	if cfg.Assistant.RetrievalTimeout == 0 {
		cfg.Assistant.RetrievalTimeout = 5000
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = defaultWorkerTimeout(cfg, key)
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.RecordStore.Backend {
	case BackendPostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	case BackendSQLite:
		if cfg.Database.SQLite.Path == "" {
			return fmt.Errorf("database.sqlite.path is required")
		}
	case BackendElasticsearch:
		if cfg.Database.Elasticsearch.GetURL() == "" {
			return fmt.Errorf("database.elasticsearch.addresses or url is required")
		}
	default:
		return fmt.Errorf("record_store.backend %q is not one of postgres, sqlite, elasticsearch", cfg.RecordStore.Backend)
	}

	switch cfg.Completion.Provider {
	case "groq", "gemini":
	default:
		return fmt.Errorf("completion.provider %q is not one of groq, gemini", cfg.Completion.Provider)
	}

	if cfg.Completion.QuotaPerMinute > 0 && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when completion.quota_per_minute is set")
	}

	if cfg.Audit.Enabled && cfg.Audit.SNSTopicARN == "" {
		return fmt.Errorf("audit.sns_topic_arn is required when audit is enabled")
	}

	for name, worker := range cfg.Workers {
		if need := MinWorkerTimeout(cfg, name); worker.Timeout <= need {
			return fmt.Errorf("workers.%s.timeout must exceed %d ms (retrieval plus completion calls)", name, need)
		}
	}

	return nil
}

// RequireCamunda reports whether the broker settings needed by the worker
// manager are present.
func (c *Config) RequireCamunda() error {
	if c.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// completionCalls is how many completion requests one job may issue in
// sequence. The chat worker regenerates once on a deflecting reply.
var completionCalls = map[string]int{
	"assistant-chat": 2,
}

// workerTimeoutMargin leaves room for reporting the outcome after the last
// completion call returns.
const workerTimeoutMargin = 25000

// MinWorkerTimeout is the time in milliseconds a job of workerName can spend
// in retrieval and completion calls before it reports an outcome.
func MinWorkerTimeout(cfg *Config, workerName string) int {
	calls, ok := completionCalls[workerName]
	if !ok {
		calls = 1
	}
	return cfg.Assistant.RetrievalTimeout + calls*cfg.Completion.Timeout
}

func defaultWorkerTimeout(cfg *Config, workerName string) int {
	return MinWorkerTimeout(cfg, workerName) + workerTimeoutMargin
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       defaultWorkerTimeout(cfg, workerName),
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
