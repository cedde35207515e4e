// Package config resolves the settings an end-to-end run needs: which
// environment it targets, where the selector table and fixture data live,
// and how browsers are launched.
//
// Values come from environment variables. Before reading them, Load applies
// env/.env.<E2E_ENV> from the repository root (E2E_ENV defaults to "dev");
// variables already set in the process take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kuitang/pom-e2e/internal/obs"
)

const (
	defaultEnv       = "dev"
	defaultTargetURL = "https://demo.playwright.dev"
	defaultTimeout   = 5 * time.Second
	defaultWidth     = 1920
	defaultHeight    = 1080
	videoOff         = "off"
)

var envNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Config holds everything a test run needs.
type Config struct {
	Root string // repository root used to resolve relative paths
	Env  string // E2E_ENV

	BaseURL string // BASE_URL, landing page for the login flow
	HomeURL string // HOME_URL, start page for the deals specs

	SelectorsPath string // SELECTORS_PATH
	FixturesPath  string // FIXTURES_PATH

	CI bool // CI

	Browser Browser

	Tracing obs.TracingConfig // TRACE_EXPORTER (none, stdout, file) and TRACE_FILE
}

// Browser holds launch and context settings.
type Browser struct {
	Projects          []string      // BROWSER_PROJECTS, comma separated, "all" for every project
	Headless          bool          // HEADLESS
	ActionTimeout     time.Duration // ACTION_TIMEOUT
	NavigationTimeout time.Duration // NAVIGATION_TIMEOUT
	Viewport          Viewport      // VIEWPORT, WIDTHxHEIGHT
	IgnoreHTTPSErrors bool          // IGNORE_HTTPS_ERRORS
	VideoDir          string        // VIDEO_DIR, "off" disables recording
}

// Viewport is a page size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Load reads configuration for the repository rooted at root.
func Load(root string) (*Config, error) {
	env := getEnvOrDefault("E2E_ENV", defaultEnv)
	envFile := filepath.Join(root, "env", ".env."+env)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg := &Config{
		Root: root,
		Env:  env,
	}

	cfg.BaseURL = getEnvOrDefault("BASE_URL", defaultTargetURL)
	cfg.HomeURL = getEnvOrDefault("HOME_URL", defaultTargetURL)

	cfg.SelectorsPath = resolvePath(root, getEnvOrDefault("SELECTORS_PATH", filepath.Join("resources", "selectors.csv")))
	cfg.FixturesPath = resolvePath(root, getEnvOrDefault("FIXTURES_PATH", filepath.Join("fixtures", env+".json")))

	cfg.CI = parseBoolOrDefault("CI", false)

	cfg.Browser = Browser{
		Projects:          parseListOrDefault("BROWSER_PROJECTS", []string{"chromium"}),
		Headless:          parseBoolOrDefault("HEADLESS", true),
		ActionTimeout:     parseDurationOrDefault("ACTION_TIMEOUT", defaultTimeout),
		NavigationTimeout: parseDurationOrDefault("NAVIGATION_TIMEOUT", defaultTimeout),
		Viewport:          parseViewportOrDefault("VIEWPORT", Viewport{Width: defaultWidth, Height: defaultHeight}),
		IgnoreHTTPSErrors: parseBoolOrDefault("IGNORE_HTTPS_ERRORS", true),
	}
	video := getEnvOrDefault("VIDEO_DIR", filepath.Join("test-results", "videos"))
	if video != videoOff {
		cfg.Browser.VideoDir = resolvePath(root, video)
	}

	cfg.Tracing = obs.TracingConfig{
		Exporter: strings.ToLower(getEnvOrDefault("TRACE_EXPORTER", obs.TraceExporterNone)),
		FilePath: resolvePath(root, getEnvOrDefault("TRACE_FILE", filepath.Join("test-results", "traces.jsonl"))),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []string

	if !envNamePattern.MatchString(c.Env) {
		errs = append(errs, fmt.Sprintf("E2E_ENV %q must match %s", c.Env, envNamePattern))
	}
	if err := validateURL(c.BaseURL); err != nil {
		errs = append(errs, "BASE_URL "+err.Error())
	}
	if err := validateURL(c.HomeURL); err != nil {
		errs = append(errs, "HOME_URL "+err.Error())
	}
	if c.SelectorsPath == "" {
		errs = append(errs, "SELECTORS_PATH is required")
	}
	if len(c.Browser.Projects) == 0 {
		errs = append(errs, "BROWSER_PROJECTS must name at least one project")
	}
	if c.Browser.ActionTimeout <= 0 {
		errs = append(errs, "ACTION_TIMEOUT must be positive")
	}
	if c.Browser.NavigationTimeout <= 0 {
		errs = append(errs, "NAVIGATION_TIMEOUT must be positive")
	}
	if c.Browser.Viewport.Width <= 0 || c.Browser.Viewport.Height <= 0 {
		errs = append(errs, "VIEWPORT must be WIDTHxHEIGHT with positive sides")
	}
	switch c.Tracing.Exporter {
	case "", obs.TraceExporterNone, obs.TraceExporterStdout, obs.TraceExporterFile:
	default:
		errs = append(errs, fmt.Sprintf("TRACE_EXPORTER %q must be none, stdout or file", c.Tracing.Exporter))
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Summary writes a human-readable description of the configuration.
func (c *Config) Summary(w io.Writer) {
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "e2e run (%s)\n", c.Env)
	fmt.Fprintf(w, "  Base:      %s\n", c.BaseURL)
	fmt.Fprintf(w, "  Home:      %s\n", c.HomeURL)
	fmt.Fprintf(w, "  Selectors: %s\n", c.SelectorsPath)
	fmt.Fprintf(w, "  Fixtures:  %s\n", c.FixturesPath)
	fmt.Fprintf(w, "  Projects:  %s\n", strings.Join(c.Browser.Projects, ", "))
	fmt.Fprintf(w, "  Headless:  %t\n", c.Browser.Headless)
	if c.Browser.VideoDir == "" {
		fmt.Fprintln(w, "  Video:     off")
	} else {
		fmt.Fprintf(w, "  Video:     %s\n", c.Browser.VideoDir)
	}
	fmt.Fprintf(w, "  Tracing:   %s\n", c.Tracing.Exporter)
	fmt.Fprintln(w, "")
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http(s) URL, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("has no host: %q", raw)
	}
	return nil
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseListOrDefault(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func parseViewportOrDefault(key string, defaultValue Viewport) Viewport {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	w, h, ok := strings.Cut(strings.ToLower(value), "x")
	if !ok {
		return defaultValue
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return defaultValue
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return defaultValue
	}
	return Viewport{Width: width, Height: height}
}

// MustLoad loads configuration and panics if it is invalid.
func MustLoad(root string) *Config {
	cfg, err := Load(root)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			panic(fmt.Sprintf("Configuration validation failed:\n  - %s", strings.Join(validationErr.Errors, "\n  - ")))
		}
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return cfg
}
