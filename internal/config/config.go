package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skiff-dev/skiff/internal/errors"
	"github.com/skiff-dev/skiff/pkg/router"
)

const (
	// ManifestFileName is the name of the manifest file.
	ManifestFileName = "skiff.yaml"

	// DefaultAddr is the default development server address.
	DefaultAddr = ":4400"

	// DefaultDir is the default app directory served and deployed.
	DefaultDir = "public"

	// DefaultRoot is the default mount selector.
	DefaultRoot = "#app"

	// DefaultFetchTimeout is the default view fetch timeout.
	DefaultFetchTimeout = 10 * time.Second
)

// Config is the root manifest structure for a Skiff app.
//
// It maps directly to the skiff.yaml file. Use Load or Parse to create a
// Config from YAML.
type Config struct {
	// Title is the app title. Defaults to "Skiff App".
	Title string `yaml:"title"`

	// Root is the selector for the element navigations mount into.
	// Defaults to "#app".
	Root string `yaml:"root"`

	// BaseURL is the origin view sources are resolved against.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}.
	BaseURL string `yaml:"base_url"`

	// FetchTimeout bounds each view fetch. Accepts duration strings like
	// "10s", "500ms". Defaults to 10s.
	FetchTimeout Duration `yaml:"fetch_timeout"`

	// Dir is the app directory served by the dev server and uploaded on
	// deploy. Defaults to "public".
	Dir string `yaml:"dir"`

	// Dev contains development server settings.
	Dev DevConfig `yaml:"dev"`

	// Deploy contains static deploy settings.
	Deploy DeployConfig `yaml:"deploy"`

	// Routes defines the route table.
	Routes []RouteConfig `yaml:"routes"`

	// manifestPath stores the path the manifest was loaded from.
	manifestPath string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Addr is the listen address (e.g., ":4400" or "localhost:4400").
	Addr string `yaml:"addr"`

	// Reload enables live reload over websocket. Defaults to true.
	Reload *bool `yaml:"reload"`

	// Watch lists directories watched for changes, relative to the
	// manifest. Defaults to the app dir.
	Watch []string `yaml:"watch"`
}

// DeployConfig contains static deploy settings.
type DeployConfig struct {
	// Bucket is the S3 bucket objects are uploaded to.
	// Supports environment variable substitution.
	Bucket string `yaml:"bucket"`

	// Prefix is the key prefix within the bucket.
	Prefix string `yaml:"prefix"`

	// Region overrides the resolved AWS region.
	Region string `yaml:"region"`
}

// RouteConfig defines a single route entry.
type RouteConfig struct {
	// Path is the route's absolute path.
	Path string `yaml:"path"`

	// View is the view source fetched on mount. Defaults to path + ".html".
	View string `yaml:"view"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment values. A reference to an unset variable without a default is
// an error.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a manifest file.
//
// Environment variables in the manifest are expanded before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C124").
				WithDetail("no " + ManifestFileName + " found at " + path).
				WithSuggestion("Create " + ManifestFileName + " in the app root")
		}
		return nil, errors.New("C120").Wrap(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.manifestPath = path
	return cfg, nil
}

// Parse parses manifest YAML data, applies defaults, and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.New("C120").
			WithDetail("failed to parse YAML: " + err.Error()).
			WithSuggestion("Check that " + ManifestFileName + " is valid YAML")
	}

	cfg.applyDefaults()
	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Path returns the path the manifest was loaded from.
func (c *Config) Path() string {
	return c.manifestPath
}

// AppDir returns the app directory resolved against the manifest location.
func (c *Config) AppDir() string {
	if filepath.IsAbs(c.Dir) || c.manifestPath == "" {
		return c.Dir
	}
	return filepath.Join(filepath.Dir(c.manifestPath), c.Dir)
}

// RouterRoutes converts the manifest route entries to router routes.
func (c *Config) RouterRoutes() []router.Route {
	routes := make([]router.Route, len(c.Routes))
	for i, rc := range c.Routes {
		routes[i] = router.Route{Path: rc.Path, View: rc.View}
	}
	return routes
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = "Skiff App"
	}
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = Duration(DefaultFetchTimeout)
	}
	if c.Dir == "" {
		c.Dir = DefaultDir
	}
	if c.Dev.Addr == "" {
		c.Dev.Addr = DefaultAddr
	}
	if c.Dev.Reload == nil {
		enabled := true
		c.Dev.Reload = &enabled
	}
	if len(c.Dev.Watch) == 0 {
		c.Dev.Watch = []string{c.Dir}
	}
}

// expandAndValidate expands environment variables and validates the
// manifest.
func (c *Config) expandAndValidate() error {
	if c.BaseURL != "" {
		expanded, err := expandEnvVars(c.BaseURL)
		if err != nil {
			return errors.New("C120").WithDetailf("base_url: %v", err)
		}
		c.BaseURL = expanded

		parsed, err := url.Parse(c.BaseURL)
		if err != nil {
			return errors.New("C120").WithDetailf("invalid base_url: %v", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return errors.New("C120").
				WithDetailf("base_url scheme must be http or https, got %q", parsed.Scheme)
		}
	}

	if err := validateAddr(c.Dev.Addr); err != nil {
		return err
	}

	if c.FetchTimeout.Duration() < 0 {
		return errors.New("C120").
			WithDetailf("fetch_timeout cannot be negative, got %s", c.FetchTimeout.Duration())
	}

	if c.Deploy.Bucket != "" {
		expanded, err := expandEnvVars(c.Deploy.Bucket)
		if err != nil {
			return errors.New("C120").WithDetailf("deploy.bucket: %v", err)
		}
		c.Deploy.Bucket = expanded
	}
	if c.Deploy.Prefix != "" {
		expanded, err := expandEnvVars(c.Deploy.Prefix)
		if err != nil {
			return errors.New("C120").WithDetailf("deploy.prefix: %v", err)
		}
		c.Deploy.Prefix = expanded
	}

	if len(c.Routes) == 0 {
		return errors.New("C123")
	}
	for i, rc := range c.Routes {
		if rc.Path == "" {
			return errors.New("C120").WithDetailf("routes[%d]: path is required", i)
		}
	}

	return nil
}

// validateAddr checks a listen address of the form "host:port" or ":port".
func validateAddr(addr string) error {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return errors.New("C122").WithDetailf("invalid addr %q: %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return errors.New("C122").WithDetailf("port must be between 0 and 65535, got %q", portStr)
	}
	return nil
}

// Exists checks if a manifest file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ManifestFileName))
	return err == nil
}

// FindManifest walks up directories to find the manifest.
// Returns the manifest path, or an error if not found.
func FindManifest(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return filepath.Join(dir, ManifestFileName), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("C124").
				WithDetail("no " + ManifestFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Create " + ManifestFileName + " in the app root")
		}
		dir = parent
	}
}
