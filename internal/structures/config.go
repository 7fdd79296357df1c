package structures

import (
	"net/http"
	"time"
)

const (
	SourceKindGitLab = "gitlab"
	SourceKindDir    = "dir"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
	// SourceDir switches the source to a local checkout.
	SourceDir string
}

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type SourceConfig struct {
	Kind       string        `yaml:"kind" validate:"required|in:gitlab,dir"`
	ProjectID  int           `yaml:"projectId"`
	ApiBaseUrl string        `yaml:"apiBaseUrl"`
	RawBaseUrl string        `yaml:"rawBaseUrl"`
	Dir        string        `yaml:"dir"`
	Timeout    time.Duration `yaml:"timeout"`
	RetryMax   int           `yaml:"retryMax"`
}

type SyncConfig struct {
	Interval    time.Duration `yaml:"interval" validate:"required"`
	Timeout     time.Duration `yaml:"timeout"`
	SyncOnStart bool          `yaml:"syncOnStart"`
}

type Persistence struct {
	FilePath string `yaml:"filePath"`
	Compress bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Source      SourceConfig  `yaml:"source"`
	Sync        SyncConfig    `yaml:"sync"`
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
}
