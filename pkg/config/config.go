// Package config reads the dsxplorer YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig is returned when the configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the struct for the configuration
type Config struct {
	LogLevel string         `yaml:"loglevel" default:"info" validate:"oneof=debug info warn error"`
	S3       S3Config       `yaml:"s3"`
	Database DatabaseConfig `yaml:"database"`
	Identity IdentityConfig `yaml:"identity"`
	Browser  BrowserConfig  `yaml:"browser"`
	Scan     ScanConfig     `yaml:"scan"`
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
}

// S3Config is the object storage holding the datasets.
type S3Config struct {
	Endpoint      string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKey     string `yaml:"accesskey"`
	APIKey        string `yaml:"apikey"`
	Region        string `yaml:"region" default:"us-east-1"`
	SsoAwsProfile string `yaml:"ssoawsprofile"`
	Bucket        string `yaml:"bucket" validate:"required"`
	// Scheme of the dataset URIs.
	Scheme       string `yaml:"scheme" default:"s3" validate:"required,alphanum"`
	EnableUpload bool   `yaml:"enableupload"`
	EnableDelete bool   `yaml:"enabledelete"`
}

// DatabaseConfig is the dataset catalog. The catalog is disabled when URL is
// empty and datasets are then discovered in the bucket.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// IdentityConfig is the user browsing the datasets.
type IdentityConfig struct {
	Username string   `yaml:"username"`
	Project  string   `yaml:"project"`
	Groups   []string `yaml:"groups"`
}

// BrowserConfig tunes the browser.
type BrowserConfig struct {
	PageSize     int           `yaml:"pagesize" default:"20" validate:"min=1,max=1000"`
	ListPageSize int           `yaml:"listpagesize" default:"100" validate:"min=1,max=1000"`
	Pinned       bool          `yaml:"pinned"`
	FetchTimeout time.Duration `yaml:"fetchtimeout" default:"30s"`
}

// ScanConfig schedules the catalog synchronization.
type ScanConfig struct {
	Enable       bool   `yaml:"enable"`
	Cron         string `yaml:"cron" default:"0 */6 * * *"`
	DeletionSync bool   `yaml:"deletionsync"`
}

// ServerConfig is the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr" default:":8081"`
}

// APIConfig is used by the clients of a remote dsxplorer server.
type APIConfig struct {
	BaseURL  string `yaml:"baseurl" validate:"omitempty,url"`
	RetryMax int    `yaml:"retrymax" default:"3" validate:"min=0,max=10"`
}

// New returns a configuration holding the default values.
func New() Config {
	var cfg Config
	// only fails on a non pointer argument
	_ = defaults.Set(&cfg)
	return cfg
}

// ReadYamlCnxFile reads a yaml file and returns a Config struct
func ReadYamlCnxFile(filename string) (Config, error) {
	cfg := New()

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("ReadYamlCnxFile: error reading %s: %w", filename, err)
	}

	if err = yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return cfg, fmt.Errorf("ReadYamlCnxFile: error parsing %s: %w", filename, err)
	}

	if err = cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// CatalogEnabled reports whether a catalog database is configured.
func (c Config) CatalogEnabled() bool {
	return c.Database.URL != ""
}
