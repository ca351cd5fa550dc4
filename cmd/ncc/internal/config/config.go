package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// File names searched by Load, in order.
const (
	JSONFile = "nucleus.json"
	YAMLFile = "nucleus.yaml"
)

// Config represents the nucleus.json (or nucleus.yaml) configuration
type Config struct {
	// Source layout
	ViewsDir      string `json:"viewsDir,omitempty" yaml:"viewsDir,omitempty"`
	VendorDir     string `json:"vendorDir,omitempty" yaml:"vendorDir,omitempty"`
	ComponentsDir string `json:"componentsDir,omitempty" yaml:"componentsDir,omitempty"`

	// Output
	Output *OutputConfig `json:"output,omitempty" yaml:"output,omitempty"`

	// Build configuration
	Build *BuildConfig `json:"build,omitempty" yaml:"build,omitempty"`

	// Site metadata
	Site *SiteConfig `json:"site,omitempty" yaml:"site,omitempty"`

	// Watch mode configuration
	Watch *WatchConfig `json:"watch,omitempty" yaml:"watch,omitempty"`
}

// OutputConfig controls where generated files go
type OutputConfig struct {
	// Generated server module
	ModuleFile string `json:"module,omitempty" yaml:"module,omitempty"`

	// Package name of the generated module
	Package string `json:"package,omitempty" yaml:"package,omitempty"`

	// Generated companion test file for spec/test blocks
	TestFile string `json:"testFile,omitempty" yaml:"testFile,omitempty"`

	// Generated client-logic bundle source
	ClientFile string `json:"clientFile,omitempty" yaml:"clientFile,omitempty"`

	// Static assets root and its public URL prefix
	StaticDir string `json:"staticDir,omitempty" yaml:"staticDir,omitempty"`
	StaticURL string `json:"staticUrl,omitempty" yaml:"staticUrl,omitempty"`

	// Staging directory for TypeScript sources
	StageDir string `json:"stageDir,omitempty" yaml:"stageDir,omitempty"`
}

// BuildConfig contains compilation settings
type BuildConfig struct {
	// Number of files compiled in parallel (0 means one per CPU)
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Whether to run esbuild on staged TypeScript
	Bundle bool `json:"bundle" yaml:"bundle"`

	// Whether to write sitemap.xml
	Sitemap bool `json:"sitemap" yaml:"sitemap"`

	// Extra packages imported by the server module
	Imports []string `json:"imports,omitempty" yaml:"imports,omitempty"`
}

// SiteConfig contains site metadata
type SiteConfig struct {
	// Absolute base URL used in sitemap.xml
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Origins injected as <link rel="preconnect"> into layouts
	Preconnect []string `json:"preconnect,omitempty" yaml:"preconnect,omitempty"`
}

// WatchConfig contains watch mode settings
type WatchConfig struct {
	// Address of the live-reload websocket endpoint
	ReloadAddr string `json:"reloadAddr,omitempty" yaml:"reloadAddr,omitempty"`

	// Debounce interval in milliseconds
	DebounceMS int `json:"debounceMs,omitempty" yaml:"debounceMs,omitempty"`
}

// Load loads configuration from nucleus.json or nucleus.yaml
func Load(projectPath string) (*Config, error) {
	for _, name := range []string{JSONFile, YAMLFile} {
		configPath := filepath.Join(projectPath, name)

		// Check if config file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			continue
		}

		// Read config file
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var config Config
		if name == YAMLFile {
			err = yaml.Unmarshal(data, &config)
		} else {
			err = json.Unmarshal(data, &config)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}

		// Apply defaults for missing values
		applyDefaults(&config)

		return &config, nil
	}

	// Return default config if no file exists
	return DefaultConfig(), nil
}

// Save saves configuration to nucleus.json
func Save(config *Config, projectPath string) error {
	configPath := filepath.Join(projectPath, JSONFile)

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(configPath, data, 0644)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ViewsDir:      filepath.Join("src", "views"),
		VendorDir:     filepath.Join("src", "vendor"),
		ComponentsDir: filepath.Join("src", "components"),
		Output: &OutputConfig{
			ModuleFile: filepath.Join("app", "app_generated.go"),
			Package:    "app",
			TestFile:   filepath.Join("app", "app_generated_test.go"),
			ClientFile: filepath.Join("client", "client_generated.go"),
			StaticDir:  "static",
			StaticURL:  "/static",
			StageDir:   filepath.Join("src", "generated", "ts"),
		},
		Build: &BuildConfig{
			Workers: runtime.NumCPU(),
			Bundle:  true,
			Sitemap: true,
		},
		Site: &SiteConfig{},
		Watch: &WatchConfig{
			ReloadAddr: "localhost:35729",
			DebounceMS: 100,
		},
	}
}

// applyDefaults applies default values to missing configuration
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.ViewsDir == "" {
		config.ViewsDir = defaults.ViewsDir
	}
	if config.VendorDir == "" {
		config.VendorDir = defaults.VendorDir
	}
	if config.ComponentsDir == "" {
		config.ComponentsDir = defaults.ComponentsDir
	}

	// Apply output defaults
	if config.Output == nil {
		config.Output = defaults.Output
	} else {
		out, def := config.Output, defaults.Output
		if out.ModuleFile == "" {
			out.ModuleFile = def.ModuleFile
		}
		if out.Package == "" {
			out.Package = def.Package
		}
		if out.TestFile == "" {
			out.TestFile = def.TestFile
		}
		if out.ClientFile == "" {
			out.ClientFile = def.ClientFile
		}
		if out.StaticDir == "" {
			out.StaticDir = def.StaticDir
		}
		if out.StaticURL == "" {
			out.StaticURL = def.StaticURL
		}
		if out.StageDir == "" {
			out.StageDir = def.StageDir
		}
	}

	// Apply build defaults
	if config.Build == nil {
		config.Build = defaults.Build
	} else if config.Build.Workers <= 0 {
		config.Build.Workers = defaults.Build.Workers
	}

	if config.Site == nil {
		config.Site = defaults.Site
	}

	// Apply watch defaults
	if config.Watch == nil {
		config.Watch = defaults.Watch
	} else {
		if config.Watch.ReloadAddr == "" {
			config.Watch.ReloadAddr = defaults.Watch.ReloadAddr
		}
		if config.Watch.DebounceMS <= 0 {
			config.Watch.DebounceMS = defaults.Watch.DebounceMS
		}
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.ViewsDir == "" {
		return fmt.Errorf("viewsDir must not be empty")
	}
	if c.Output == nil || c.Output.ModuleFile == "" {
		return fmt.Errorf("output.module must not be empty")
	}
	if c.Output.Package == "" {
		return fmt.Errorf("output.package must not be empty")
	}
	if c.Build != nil && c.Build.Workers < 0 {
		return fmt.Errorf("build.workers must not be negative")
	}
	return nil
}
