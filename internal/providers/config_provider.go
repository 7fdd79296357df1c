package providers

import (
	"agd/internal/structures"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultProjectID  = 53216109
	defaultApiBaseUrl = "https://gitlab.com/api/v4"
	defaultRawBaseUrl = "https://gitlab.com/Dimbreath/AnimeGameData/-/raw"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	setDefaults(v)

	v.BindEnv("logger.level", "AGD_LOG_LEVEL")
	v.BindEnv("sync.interval", "AGD_SYNC_INTERVAL")
	v.BindEnv("source.kind", "AGD_SOURCE_KIND")
	v.BindEnv("source.dir", "AGD_SOURCE_DIR")
	v.BindEnv("persistence.filePath", "AGD_PERSISTENCE_FILE")
	v.BindEnv("cache.enabled", "AGD_CACHE_ENABLED")
	v.BindEnv("cache.size", "AGD_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if flags.SourceDir != "" {
		conf.Source.Kind = structures.SourceKindDir
		conf.Source.Dir = flags.SourceDir
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "AnimeGameData"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.kind", structures.SourceKindGitLab)
	v.SetDefault("source.projectId", defaultProjectID)
	v.SetDefault("source.apiBaseUrl", defaultApiBaseUrl)
	v.SetDefault("source.rawBaseUrl", defaultRawBaseUrl)
	v.SetDefault("source.timeout", 2*time.Minute)
	v.SetDefault("source.retryMax", 3)
	v.SetDefault("sync.interval", time.Hour)
	v.SetDefault("sync.timeout", 10*time.Minute)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
}
