package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/juruen/homus/fetch"
	"github.com/juruen/homus/log"
	"github.com/juruen/homus/raster"
)

const (
	configFileEnvVar  = "HOMUS_CONFIG"
	defaultConfigFile = "homus.yaml"
)

// Layout names a pair of raw and output directories.
type Layout struct {
	RawDir    string
	OutputDir string
}

var layouts = map[string]Layout{
	"default": {RawDir: "data", OutputDir: "homus_data"},
	"labeled": {RawDir: "raw", OutputDir: "labeled"},
}

type FetchConfig struct {
	URL      string        `yaml:"url,omitempty"`
	SHA256   string        `yaml:"sha256,omitempty"`
	CacheDir string        `yaml:"cache_dir,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	// Skip reuses an already extracted raw dir.
	Skip bool `yaml:"skip,omitempty"`
}

func (f FetchConfig) Options() fetch.Options {
	return fetch.Options{
		URL:      f.URL,
		SHA256:   f.SHA256,
		CacheDir: f.CacheDir,
		Timeout:  f.Timeout,
	}
}

type Config struct {
	Dataset   string        `yaml:"dataset"`
	RawDir    string        `yaml:"raw_dir"`
	OutputDir string        `yaml:"output_dir"`
	Fetch     FetchConfig   `yaml:"fetch"`
	Render    raster.Config `yaml:"render"`
}

// Default mirrors the usual HOMUS preparation: HOMUS_V2 into "data",
// images into "homus_data".
func Default() Config {
	l := layouts["default"]
	return Config{
		Dataset:   fetch.HomusV2,
		RawDir:    l.RawDir,
		OutputDir: l.OutputDir,
		Render:    raster.DefaultConfig(),
	}
}

// ApplyLayout sets the raw and output directories of a named layout.
func (c *Config) ApplyLayout(name string) error {
	l, ok := layouts[name]
	if !ok {
		return fmt.Errorf("unknown layout %q", name)
	}
	c.RawDir = l.RawDir
	c.OutputDir = l.OutputDir
	return nil
}

func (c Config) Validate() error {
	if !c.Fetch.Skip {
		if _, err := fetch.Lookup(c.Dataset); err != nil {
			return err
		}
	}
	if c.RawDir == "" {
		return errors.New("raw_dir is required")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	if c.RawDir == c.OutputDir {
		return fmt.Errorf("raw_dir and output_dir must differ, both are %q", c.RawDir)
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch timeout must not be negative")
	}
	return errors.Wrap(c.Render.Validate(), "render")
}

// Parse reads YAML on top of the defaults; keys that are absent keep
// their default value.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "can't parse config")
	}
	return cfg, nil
}

func Load(path string) (Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "can't read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrap(err, path)
	}
	log.Trace.Println("config loaded: ", path)
	return cfg, nil
}

// ConfigPath returns the file to load: an explicit path wins, then
// HOMUS_CONFIG, then homus.yaml in the working directory if present.
func ConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(configFileEnvVar); env != "" {
		return env
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}

// LoadDefault loads the config selected by ConfigPath, or the defaults
// when there is none.
func LoadDefault(explicit string) (Config, error) {
	path := ConfigPath(explicit)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
