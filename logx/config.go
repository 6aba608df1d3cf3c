package logx

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the value type copied into a Logger at creation time.
// Thereafter only the logger itself mutates it, and only under its
// mutex.
type Config struct {
	Name string

	FilePath string // empty disables file logging regardless of EnableFileLogging

	ConsoleLevel Level
	FileLevel    Level

	EnableConsoleLogging bool
	EnableFileLogging    bool

	ColoredLogs     bool
	UseTTYDetection bool

	Rotate RotatePolicy

	BannerPattern string
	PrintConfig   bool
}

// DefaultConfig returns a permissive starting point: trace-level
// everything, console and file logging both on, colored output with
// tty detection, 10MB size-triggered rotation keeping 3 backups.
func DefaultConfig() Config {
	return Config{
		Name:                 "logx",
		FilePath:             "",
		ConsoleLevel:         TRACE,
		FileLevel:            TRACE,
		EnableConsoleLogging: true,
		EnableFileLogging:    true,
		ColoredLogs:          true,
		UseTTYDetection:      true,
		Rotate: RotatePolicy{
			Type:          RotateBySize,
			SizeBytes:     10 * 1024 * 1024,
			DailyInterval: 1,
			MaxBackups:    3,
		},
		BannerPattern: "=",
		PrintConfig:   true,
	}
}

// LoadConfig obtains a Config from an external loader: an optional
// YAML/JSON config file, then LOGX_* environment variables, which
// override values from the file, falling back to DefaultConfig for
// anything unset. A search path that names a regular file is read as
// the config file itself; any other path is searched as a directory
// for a file named logx_cfg with a supported extension (such as .yml,
// .yaml or .json). This is the "external collaborator" referenced by
// Logger.Create when no Config is supplied directly.
func LoadConfig(searchPaths ...string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("logx_cfg")
	for _, p := range searchPaths {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			v.SetConfigFile(p)
			continue
		}
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("LOGX")
	v.AutomaticEnv()
	for _, key := range []string{
		"name", "file_path",
		"enable_console_logging", "console_level",
		"enable_file_logging", "file_level",
		"enable_colored_logging", "use_tty_detection",
		"print_config",
		"rotate_type", "rotate_size_mb", "rotate_max_backups", "rotate_interval_days",
		"banner_pattern",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("logx: reading config: %w", err)
		}
	}

	if v.IsSet("name") {
		cfg.Name = v.GetString("name")
	}
	if v.IsSet("file_path") {
		cfg.FilePath = v.GetString("file_path")
	}
	if v.IsSet("enable_console_logging") {
		cfg.EnableConsoleLogging = v.GetBool("enable_console_logging")
	}
	if v.IsSet("enable_file_logging") {
		cfg.EnableFileLogging = v.GetBool("enable_file_logging")
	}
	if v.IsSet("enable_colored_logging") {
		cfg.ColoredLogs = v.GetBool("enable_colored_logging")
	}
	if v.IsSet("use_tty_detection") {
		cfg.UseTTYDetection = v.GetBool("use_tty_detection")
	}
	if v.IsSet("print_config") {
		cfg.PrintConfig = v.GetBool("print_config")
	}
	if v.IsSet("banner_pattern") {
		cfg.BannerPattern = v.GetString("banner_pattern")
	}
	if v.IsSet("console_level") {
		if l, ok := ParseLevel(v.GetString("console_level")); ok {
			cfg.ConsoleLevel = l
		}
	}
	if v.IsSet("file_level") {
		if l, ok := ParseLevel(v.GetString("file_level")); ok {
			cfg.FileLevel = l
		}
	}
	if v.IsSet("rotate_type") {
		if t, ok := ParseRotateType(v.GetString("rotate_type")); ok {
			cfg.Rotate.Type = t
		}
	}
	// SizeMB is ingested here, once, and converted to the single internal
	// unit (bytes) the rotation engine understands; nothing downstream of
	// this point ever sees megabytes again.
	if v.IsSet("rotate_size_mb") {
		cfg.Rotate.SizeBytes = int64(v.GetInt("rotate_size_mb")) * 1024 * 1024
	}
	if v.IsSet("rotate_max_backups") {
		cfg.Rotate.MaxBackups = v.GetInt("rotate_max_backups")
	}
	if v.IsSet("rotate_interval_days") {
		cfg.Rotate.DailyInterval = v.GetInt("rotate_interval_days")
	}

	if cfg.BannerPattern == "" {
		cfg.BannerPattern = "="
	}

	return cfg, nil
}

func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "logx config: name=%q file_path=%q console=%v(%s) file=%v(%s) colored=%v tty_detect=%v rotate=%s(%dB,%dbackups,%dd) banner=%q\n",
		c.Name, c.FilePath,
		c.EnableConsoleLogging, c.ConsoleLevel,
		c.EnableFileLogging, c.FileLevel,
		c.ColoredLogs, c.UseTTYDetection,
		c.Rotate.Type, c.Rotate.SizeBytes, c.Rotate.MaxBackups, c.Rotate.DailyInterval,
		c.BannerPattern)
	return b.String()
}
