// Package config resolves steamrec settings from built-in profiles, an
// optional TOML file, a .env file, the environment and command flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/steamrec/internal/adapters/refdata"
	"github.com/bnema/steamrec/internal/adapters/repo/jsonfile"
	tomlrepo "github.com/bnema/steamrec/internal/adapters/repo/toml"
	passstore "github.com/bnema/steamrec/internal/adapters/secrets/pass"
	"github.com/bnema/steamrec/internal/application"
	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	AppName   = "steamrec"
	EnvPrefix = "STEAMREC"

	KeyProfile                = "profile"
	KeyAPIKey                 = "steam.api_key"
	KeySteamID                = "steam.id"
	KeyBaseURL                = "steam.base_url"
	KeyRequestsPerSecond      = "steam.requests_per_second"
	KeyRequestTimeout         = "fetch.request_timeout"
	KeyMaxAttempts            = "fetch.max_attempts"
	KeyRetryDelay             = "fetch.retry_delay"
	KeyRequestDelay           = "fetch.request_delay"
	KeyRateLimitPatience      = "fetch.rate_limit_patience"
	KeyBatchSize              = "collect.batch_size"
	KeyMaxFailedRequests      = "collect.max_failed_requests"
	KeyMaxConsecutiveFailures = "collect.max_consecutive_failures"
	KeyProcessAllPeers        = "collect.process_all_friends"
	KeyBatchCooldown          = "collect.batch_cooldown"
	KeyStateDir               = "state.dir"
	KeySnapshotPath           = "state.snapshot_path"
	KeyHistoryPath            = tomlrepo.HistoryPathKey
	KeyReferencePath          = "reference.path"
	KeySecretsDir             = "secrets.dir"
	KeyPassBinary             = "secrets.pass_binary"
	KeyLogLevel               = "log.level"
	KeyLogFormat              = "log.format"

	// FlagFirstBatchOnly inverts collect.process_all_friends when set.
	FlagFirstBatchOnly = "first-batch-only"
)

// flagKeys maps command flag names onto configuration keys.
var flagKeys = map[string]string{
	"profile":     KeyProfile,
	"steam-id":    KeySteamID,
	"batch-size":  KeyBatchSize,
	"state-dir":   KeyStateDir,
	"log-level":   KeyLogLevel,
	"log-format":  KeyLogFormat,
	"reference":   KeyReferencePath,
	"max-retries": KeyMaxAttempts,
}

type Options struct {
	// ConfigFile is an explicit TOML file. When empty, config.toml is looked
	// up in the user config dir and may be absent.
	ConfigFile string
	// EnvFile defaults to .env in the working directory. A missing file is ignored.
	EnvFile string
	Flags   *pflag.FlagSet
}

type Config struct {
	Profile string

	APIKey            string
	SteamID           domain.SteamID
	BaseURL           string
	RequestsPerSecond float64
	RequestTimeout    time.Duration

	MaxAttempts       int
	RetryDelay        time.Duration
	RequestDelay      time.Duration
	RateLimitPatience int

	BatchSize              int
	MaxFailedRequests      int
	MaxConsecutiveFailures int
	ProcessAllPeers        bool
	BatchCooldown          time.Duration

	ConfigDir     string
	StateDir      string
	SnapshotPath  string
	HistoryPath   string
	ReferencePath string
	SecretsDir    string
	PassBinary    string

	LogLevel  string
	LogFormat string

	v *viper.Viper
}

func Load(opts Options) (Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Config{}, err
	}

	dirs, err := resolveDirs()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: read config file %s: %v", domain.ErrConfiguration, opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(dirs.config)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("%w: read config file: %v", domain.ErrConfiguration, err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyAPIKey, EnvPrefix+"_STEAM_API_KEY", "STEAM_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env: %w", err)
	}
	if err := v.BindEnv(KeySteamID, EnvPrefix+"_STEAM_ID", "STEAM_ID"); err != nil {
		return Config{}, fmt.Errorf("bind steam id env: %w", err)
	}

	if err := bindFlags(v, opts.Flags); err != nil {
		return Config{}, err
	}

	v.SetDefault(KeyProfile, ProfileDefault)
	profileName := strings.ToLower(strings.TrimSpace(v.GetString(KeyProfile)))
	profile, ok := LookupProfile(profileName)
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown profile %q (want %s or %s)", domain.ErrConfiguration, profileName, ProfileDefault, ProfileTest)
	}
	setDefaults(v, profile, dirs)

	stateDir := v.GetString(KeyStateDir)
	v.SetDefault(KeySnapshotPath, filepath.Join(stateDir, jsonfile.SnapshotFileName))
	v.SetDefault(KeyHistoryPath, filepath.Join(stateDir, tomlrepo.HistoryFileName))

	cfg := Config{
		Profile:                profileName,
		APIKey:                 strings.TrimSpace(v.GetString(KeyAPIKey)),
		SteamID:                domain.SteamID(strings.TrimSpace(v.GetString(KeySteamID))),
		BaseURL:                v.GetString(KeyBaseURL),
		RequestsPerSecond:      v.GetFloat64(KeyRequestsPerSecond),
		RequestTimeout:         v.GetDuration(KeyRequestTimeout),
		MaxAttempts:            v.GetInt(KeyMaxAttempts),
		RetryDelay:             v.GetDuration(KeyRetryDelay),
		RequestDelay:           v.GetDuration(KeyRequestDelay),
		RateLimitPatience:      v.GetInt(KeyRateLimitPatience),
		BatchSize:              v.GetInt(KeyBatchSize),
		MaxFailedRequests:      v.GetInt(KeyMaxFailedRequests),
		MaxConsecutiveFailures: v.GetInt(KeyMaxConsecutiveFailures),
		ProcessAllPeers:        v.GetBool(KeyProcessAllPeers),
		BatchCooldown:          v.GetDuration(KeyBatchCooldown),
		ConfigDir:              dirs.config,
		StateDir:               stateDir,
		SnapshotPath:           v.GetString(KeySnapshotPath),
		HistoryPath:            v.GetString(KeyHistoryPath),
		ReferencePath:          v.GetString(KeyReferencePath),
		SecretsDir:             v.GetString(KeySecretsDir),
		PassBinary:             v.GetString(KeyPassBinary),
		LogLevel:               v.GetString(KeyLogLevel),
		LogFormat:              strings.ToLower(v.GetString(KeyLogFormat)),
		v:                      v,
	}

	if opts.Flags != nil {
		if firstOnly, err := opts.Flags.GetBool(FlagFirstBatchOnly); err == nil && firstOnly {
			cfg.ProcessAllPeers = false
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Viper exposes the resolved settings to adapters configured by key.
func (c Config) Viper() *viper.Viper {
	return c.v
}

func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{domain.ErrConfiguration}, args...)...))
		}
	}

	check(c.MaxAttempts >= 1, "%s must be at least 1, got %d", KeyMaxAttempts, c.MaxAttempts)
	check(c.BatchSize >= 1, "%s must be at least 1, got %d", KeyBatchSize, c.BatchSize)
	check(c.MaxFailedRequests >= 0, "%s must not be negative, got %d", KeyMaxFailedRequests, c.MaxFailedRequests)
	check(c.MaxConsecutiveFailures >= 1, "%s must be at least 1, got %d", KeyMaxConsecutiveFailures, c.MaxConsecutiveFailures)
	check(c.RateLimitPatience >= 0, "%s must not be negative, got %d", KeyRateLimitPatience, c.RateLimitPatience)
	check(c.RequestsPerSecond >= 0, "%s must not be negative", KeyRequestsPerSecond)
	for key, d := range map[string]time.Duration{
		KeyRetryDelay:     c.RetryDelay,
		KeyRequestDelay:   c.RequestDelay,
		KeyBatchCooldown:  c.BatchCooldown,
		KeyRequestTimeout: c.RequestTimeout,
	} {
		check(d >= 0, "%s must not be negative, got %s", key, d)
	}
	check(c.LogFormat == logging.FormatConsole || c.LogFormat == logging.FormatJSON,
		"%s must be %s or %s, got %q", KeyLogFormat, logging.FormatConsole, logging.FormatJSON, c.LogFormat)

	return errors.Join(errs...)
}

// RequireSteamID is checked only by commands that talk to the Steam API.
func (c Config) RequireSteamID() error {
	if c.SteamID == "" {
		return fmt.Errorf("%w: steam id is required (set STEAM_ID or --steam-id)", domain.ErrConfiguration)
	}
	return nil
}

func (c Config) FetchPolicy() application.FetchPolicy {
	return application.FetchPolicy{
		MaxAttempts:       c.MaxAttempts,
		RetryDelay:        c.RetryDelay,
		RequestDelay:      c.RequestDelay,
		RateLimitPatience: c.RateLimitPatience,
	}
}

func (c Config) CollectorConfig() application.CollectorConfig {
	return application.CollectorConfig{
		BatchSize:              c.BatchSize,
		MaxFailedRequests:      c.MaxFailedRequests,
		MaxConsecutiveFailures: c.MaxConsecutiveFailures,
		ProcessAllPeers:        c.ProcessAllPeers,
		BatchCooldown:          c.BatchCooldown,
	}
}

func (c Config) Logging() logging.Config {
	return logging.Config{Level: c.LogLevel, Format: c.LogFormat, Output: os.Stderr}
}

func setDefaults(v *viper.Viper, p Profile, dirs baseDirs) {
	v.SetDefault(KeyBaseURL, "")
	v.SetDefault(KeyRequestsPerSecond, 1.0)
	v.SetDefault(KeyRequestTimeout, p.RequestTimeout)
	v.SetDefault(KeyMaxAttempts, p.MaxAttempts)
	v.SetDefault(KeyRetryDelay, p.RetryDelay)
	v.SetDefault(KeyRequestDelay, p.RequestDelay)
	v.SetDefault(KeyRateLimitPatience, 0)
	v.SetDefault(KeyBatchSize, p.BatchSize)
	v.SetDefault(KeyMaxFailedRequests, p.MaxFailedRequests)
	v.SetDefault(KeyMaxConsecutiveFailures, p.MaxConsecutiveFailures)
	v.SetDefault(KeyProcessAllPeers, p.ProcessAllPeers)
	v.SetDefault(KeyBatchCooldown, p.BatchCooldown)
	v.SetDefault(KeyStateDir, dirs.state)
	v.SetDefault(KeyReferencePath, filepath.Join(dirs.data, refdata.FileName))
	v.SetDefault(KeySecretsDir, filepath.Join(dirs.config, "secrets"))
	v.SetDefault(KeyPassBinary, passstore.DefaultBinary)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logging.FormatConsole)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: load env file %s: %v", domain.ErrConfiguration, path, err)
	}
	return nil
}
