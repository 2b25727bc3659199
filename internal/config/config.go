package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	SiliconFlow SiliconFlowConfig
	Upload      UploadConfig
	Log         LogConfig
}

type ServerConfig struct {
	Host        string
	Port        string
	Env         string
	LogLevel    string
	OpenBrowser bool
}

// Addr returns the listen address of the form server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// URL returns the address a browser should open.
func (s ServerConfig) URL() string {
	return fmt.Sprintf("http://%s/", s.Addr())
}

type SiliconFlowConfig struct {
	BaseURL      string
	Timeout      int // seconds
	BypassProxy  bool
	DefaultModel string
}

type UploadConfig struct {
	MaxSizeMB int
	TempDir   string
}

// MaxSizeBytes returns the upload size limit in bytes.
func (u UploadConfig) MaxSizeBytes() int64 {
	return int64(u.MaxSizeMB) * 1024 * 1024
}

type LogConfig struct {
	Dir  string
	File string
}

// Load reads config.yaml from the working directory (optional), the
// environment and the defaults.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Try to read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return build(v)
}

// LoadFile reads configuration from the given file, then the environment
// and the defaults.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.env", "SERVER_ENV")
	_ = v.BindEnv("server.log_level", "LOG_LEVEL")
	_ = v.BindEnv("server.open_browser", "OPEN_BROWSER")
	_ = v.BindEnv("siliconflow.base_url", "SILICONFLOW_BASE_URL")
	_ = v.BindEnv("siliconflow.timeout", "SILICONFLOW_TIMEOUT")
	_ = v.BindEnv("siliconflow.bypass_proxy", "SILICONFLOW_BYPASS_PROXY")
	_ = v.BindEnv("siliconflow.default_model", "SILICONFLOW_DEFAULT_MODEL")
	_ = v.BindEnv("upload.max_size_mb", "UPLOAD_MAX_SIZE_MB")
	_ = v.BindEnv("upload.temp_dir", "UPLOAD_TEMP_DIR")
	_ = v.BindEnv("log.dir", "LOG_DIR")
	_ = v.BindEnv("log.file", "LOG_FILE")

	// Defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "7860")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.open_browser", true)

	// SiliconFlow defaults
	v.SetDefault("siliconflow.base_url", "https://api.siliconflow.cn/v1")
	v.SetDefault("siliconflow.timeout", 60)
	v.SetDefault("siliconflow.bypass_proxy", true)
	v.SetDefault("siliconflow.default_model", "FunAudioLLM/CosyVoice2-0.5B")

	// Upload defaults
	v.SetDefault("upload.max_size_mb", 50)
	v.SetDefault("upload.temp_dir", os.TempDir())

	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.file", "voice_upload.log")

	return v
}

func build(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("server.host"),
			Port:        v.GetString("server.port"),
			Env:         v.GetString("server.env"),
			LogLevel:    v.GetString("server.log_level"),
			OpenBrowser: v.GetBool("server.open_browser"),
		},
		SiliconFlow: SiliconFlowConfig{
			BaseURL:      strings.TrimRight(v.GetString("siliconflow.base_url"), "/"),
			Timeout:      v.GetInt("siliconflow.timeout"),
			BypassProxy:  v.GetBool("siliconflow.bypass_proxy"),
			DefaultModel: v.GetString("siliconflow.default_model"),
		},
		Upload: UploadConfig{
			MaxSizeMB: v.GetInt("upload.max_size_mb"),
			TempDir:   v.GetString("upload.temp_dir"),
		},
		Log: LogConfig{
			Dir:  v.GetString("log.dir"),
			File: v.GetString("log.file"),
		},
	}

	if cfg.SiliconFlow.Timeout <= 0 {
		return nil, fmt.Errorf("siliconflow.timeout must be positive, got %d", cfg.SiliconFlow.Timeout)
	}
	if cfg.Upload.MaxSizeMB <= 0 {
		return nil, fmt.Errorf("upload.max_size_mb must be positive, got %d", cfg.Upload.MaxSizeMB)
	}

	return cfg, nil
}
