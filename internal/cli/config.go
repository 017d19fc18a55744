package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/nuclibre/internal/publish"
	"github.com/mesh-intelligence/nuclibre/internal/refdata"
	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
)

// Config keys.
const (
	cfgKeyENSDFFile   = "ensdf_file"
	cfgKeyPatchDir    = "patch_dir"
	cfgKeyPatchSource = "patch_source"
	cfgKeySink        = "sink"
	cfgKeyOutput      = "output"
	cfgKeyPostgresDSN = "postgres_dsn"
	cfgKeyMasses      = "reference.masses"
	cfgKeyYields      = "reference.yields"
	cfgKeyXRays       = "reference.xrays"
	cfgKeyMetricsFile = "metrics_file"
	cfgKeyBucket      = "publish.bucket"
	cfgKeyPrefix      = "publish.prefix"
	cfgKeyRegion      = "publish.region"
	cfgKeyEndpoint    = "publish.endpoint"
	cfgKeyPathStyle   = "publish.path_style"
)

const (
	defaultSink        = types.SinkSQLite
	defaultPatchSource = "PATCH"
	defaultENSDFOrigin = "ENSDF"
)

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	ENSDFFile   string          `yaml:"ensdf_file"`
	PatchDir    string          `yaml:"patch_dir"`
	PatchSource string          `yaml:"patch_source"`
	Sink        string          `yaml:"sink"`
	Output      string          `yaml:"output"`
	PostgresDSN string          `yaml:"postgres_dsn"`
	Reference   referenceConfig `yaml:"reference"`
	MetricsFile string          `yaml:"metrics_file"`
	Publish     publish.Config  `yaml:"publish"`
}

type referenceConfig struct {
	Masses string `yaml:"masses"`
	Yields string `yaml:"yields"`
	XRays  string `yaml:"xrays"`
}

// defaultConfig is what init writes to a fresh config.yaml.
func defaultConfig() configFile {
	return configFile{
		PatchSource: defaultPatchSource,
		Sink:        defaultSink,
	}
}

// runConfig is the fully resolved configuration of a run.
type runConfig struct {
	ENSDFFile   string
	PatchDir    string
	PatchSource string
	Sink        types.Config
	Reference   refdata.Paths
	MetricsFile string
	Publish     publish.Config
}

// loadConfig reads config.yaml from configDir using Viper. A missing
// directory or config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeySink, defaultSink)
	v.SetDefault(cfgKeyPatchSource, defaultPatchSource)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// bindFlags makes each named flag override its config key when the flag
// is set on the command line.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := fs.Lookup(flag)
		if f == nil {
			return fmt.Errorf("no flag %q", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", flag, err)
		}
	}
	return nil
}

// resolve reads the run configuration out of v.
func resolve(v *viper.Viper) runConfig {
	return runConfig{
		ENSDFFile:   v.GetString(cfgKeyENSDFFile),
		PatchDir:    v.GetString(cfgKeyPatchDir),
		PatchSource: v.GetString(cfgKeyPatchSource),
		Sink: types.Config{
			Sink:        v.GetString(cfgKeySink),
			Output:      v.GetString(cfgKeyOutput),
			PostgresDSN: v.GetString(cfgKeyPostgresDSN),
		},
		Reference: refdata.Paths{
			Masses: v.GetString(cfgKeyMasses),
			Yields: v.GetString(cfgKeyYields),
			XRays:  v.GetString(cfgKeyXRays),
		},
		MetricsFile: v.GetString(cfgKeyMetricsFile),
		Publish: publish.Config{
			Bucket:    v.GetString(cfgKeyBucket),
			Prefix:    v.GetString(cfgKeyPrefix),
			Region:    v.GetString(cfgKeyRegion),
			Endpoint:  v.GetString(cfgKeyEndpoint),
			PathStyle: v.GetBool(cfgKeyPathStyle),
		},
	}
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether a file was written.
func writeConfigIfMissing(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfig()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
