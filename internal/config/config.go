package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vango-dev/dropzone/pkg/dropzone"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DROPZONE"

// Upload backends.
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// Config is the complete server configuration.
type Config struct {
	Addr    string        `mapstructure:"addr"`
	Log     LogConfig     `mapstructure:"log"`
	Upload  UploadConfig  `mapstructure:"upload"`
	S3      S3Config      `mapstructure:"s3"`
	Widget  WidgetConfig  `mapstructure:"widget"`
	Session SessionConfig `mapstructure:"session"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level"`

	// Format is text or json.
	Format string `mapstructure:"format"`
}

// UploadConfig configures the upload backend.
type UploadConfig struct {
	Backend         string        `mapstructure:"backend"`
	Dir             string        `mapstructure:"dir"`
	MaxFileSize     int64         `mapstructure:"max_file_size"`
	MaxFiles        int           `mapstructure:"max_files"`
	AllowedTypes    []string      `mapstructure:"allowed_types"`
	TempExpiry      time.Duration `mapstructure:"temp_expiry"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// S3Config is used when Upload.Backend is "s3". Empty credentials fall
// back to the default AWS chain.
type S3Config struct {
	Bucket          string        `mapstructure:"bucket"`
	Prefix          string        `mapstructure:"prefix"`
	Region          string        `mapstructure:"region"`
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	URLExpiry       time.Duration `mapstructure:"url_expiry"`
}

// WidgetConfig holds the widget options exposed to operators.
type WidgetConfig struct {
	Multiple          bool   `mapstructure:"multiple"`
	UploadImmediately bool   `mapstructure:"upload_immediately"`
	Label             string `mapstructure:"label"`
	Subtitle          string `mapstructure:"subtitle"`
	ShowFileList      bool   `mapstructure:"show_file_list"`

	// Accept entries are a MIME pattern optionally followed by "=" and a
	// "|"-separated extension list, e.g. "image/png=.png|.apng". Lists
	// given as one string (environment, flags) are split on commas.
	Accept []string `mapstructure:"accept"`

	// MaxFiles limits one drop. Zero means unlimited.
	MaxFiles int `mapstructure:"max_files"`
}

// SessionConfig controls per-browser widget sessions.
type SessionConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	CookieName  string        `mapstructure:"cookie_name"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr: ":8080",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Upload: UploadConfig{
			Backend:         BackendDisk,
			Dir:             os.TempDir() + "/dropzone",
			MaxFileSize:     10 << 20,
			MaxFiles:        20,
			TempExpiry:      time.Hour,
			CleanupInterval: 5 * time.Minute,
		},
		S3: S3Config{
			Prefix:    "uploads/",
			Region:    "us-east-1",
			URLExpiry: 15 * time.Minute,
		},
		Widget: WidgetConfig{
			Multiple:     true,
			ShowFileList: true,
		},
		Session: SessionConfig{
			IdleTimeout: 30 * time.Minute,
			CookieName:  "dropzone_session",
		},
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}
	switch c.Upload.Backend {
	case BackendDisk:
		if c.Upload.Dir == "" {
			errs = append(errs, errors.New("upload.dir is required for the disk backend"))
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3.bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("upload.backend %q: want disk or s3", c.Upload.Backend))
	}
	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, errors.New("upload.max_file_size must be positive"))
	}
	if c.Upload.MaxFiles <= 0 {
		errs = append(errs, errors.New("upload.max_files must be positive"))
	}
	if c.Upload.TempExpiry <= 0 {
		errs = append(errs, errors.New("upload.temp_expiry must be positive"))
	}
	if c.Upload.CleanupInterval <= 0 {
		errs = append(errs, errors.New("upload.cleanup_interval must be positive"))
	}
	if c.Widget.MaxFiles < 0 {
		errs = append(errs, errors.New("widget.max_files must not be negative"))
	}
	if _, err := ParseAccept(c.Widget.Accept); err != nil {
		errs = append(errs, err)
	}
	if c.Session.IdleTimeout <= 0 {
		errs = append(errs, errors.New("session.idle_timeout must be positive"))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session.cookie_name is required"))
	}
	return errors.Join(errs...)
}

// Load reads path (if non-empty), applies environment overrides and flags
// already bound to v, and validates the result. A nil v uses a fresh
// instance.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it during
// Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("upload.backend", d.Upload.Backend)
	v.SetDefault("upload.dir", d.Upload.Dir)
	v.SetDefault("upload.max_file_size", d.Upload.MaxFileSize)
	v.SetDefault("upload.max_files", d.Upload.MaxFiles)
	v.SetDefault("upload.allowed_types", d.Upload.AllowedTypes)
	v.SetDefault("upload.temp_expiry", d.Upload.TempExpiry)
	v.SetDefault("upload.cleanup_interval", d.Upload.CleanupInterval)
	v.SetDefault("s3.bucket", d.S3.Bucket)
	v.SetDefault("s3.prefix", d.S3.Prefix)
	v.SetDefault("s3.region", d.S3.Region)
	v.SetDefault("s3.endpoint", d.S3.Endpoint)
	v.SetDefault("s3.access_key_id", d.S3.AccessKeyID)
	v.SetDefault("s3.secret_access_key", d.S3.SecretAccessKey)
	v.SetDefault("s3.url_expiry", d.S3.URLExpiry)
	v.SetDefault("widget.multiple", d.Widget.Multiple)
	v.SetDefault("widget.upload_immediately", d.Widget.UploadImmediately)
	v.SetDefault("widget.label", d.Widget.Label)
	v.SetDefault("widget.subtitle", d.Widget.Subtitle)
	v.SetDefault("widget.show_file_list", d.Widget.ShowFileList)
	v.SetDefault("widget.accept", d.Widget.Accept)
	v.SetDefault("widget.max_files", d.Widget.MaxFiles)
	v.SetDefault("session.idle_timeout", d.Session.IdleTimeout)
	v.SetDefault("session.cookie_name", d.Session.CookieName)
}

// Flags names the keys that BindFlags maps to command-line flags.
var Flags = map[string]string{
	"addr":               "addr",
	"log-level":          "log.level",
	"log-format":         "log.format",
	"upload-dir":         "upload.dir",
	"upload-backend":     "upload.backend",
	"max-file-size":      "upload.max_file_size",
	"s3-bucket":          "s3.bucket",
	"s3-endpoint":        "s3.endpoint",
	"multiple":           "widget.multiple",
	"upload-immediately": "widget.upload_immediately",
	"label":              "widget.label",
	"subtitle":           "widget.subtitle",
	"accept":             "widget.accept",
}

// BindFlags binds every flag in fs named in Flags to its key in v. Flags
// that fs does not define are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range Flags {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q: want debug, info, warn or error", s)
	}
	return l, nil
}

// ParseAccept converts widget.accept entries to a dropzone.Accept map.
// It returns nil for no entries, which accepts everything.
func ParseAccept(entries []string) (dropzone.Accept, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	accept := make(dropzone.Accept, len(entries))
	for _, entry := range entries {
		mime, exts, _ := strings.Cut(strings.TrimSpace(entry), "=")
		if mime == "" || !strings.Contains(mime, "/") {
			return nil, fmt.Errorf("widget.accept %q: want type/subtype[=.ext|...]", entry)
		}
		var list []string
		for _, ext := range strings.Split(exts, "|") {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				return nil, fmt.Errorf("widget.accept %q: extension %q must start with a dot", entry, ext)
			}
			list = append(list, ext)
		}
		accept[mime] = append(accept[mime], list...)
	}
	return accept, nil
}

// NewLogger builds the slog logger described by c.
func (c LogConfig) NewLogger() *slog.Logger {
	level, err := ParseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
