// Package config resolves the run configuration for a webpilot session.
//
// Parameters come from the environment, optionally overlaid on a YAML file;
// environment values win over the file, built-in defaults fill the rest.
// Every resolved parameter is logged once with its source so a run's inputs
// can be reconstructed from the log alone.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Environment variable names recognized by Load.
const (
	EnvDemoMode        = "DEMO_MODE"
	EnvLogsDir         = "LOGS_FOLDER_PATH"
	EnvScreenshotsDir  = "SCREENSHOT_FOLDER_PATH"
	EnvBaseURL         = "BASE_URL"
	EnvAdditionalWait  = "DEFAULT_ADDITIONAL_WAIT_TIME_SECONDS"
	EnvQuestionTimeout = "QUESTION_TIMEOUT_SECONDS"
	EnvUserAgent       = "USER_AGENT"
	EnvUserDataDir     = "USER_DATA_DIR"
)

// Defaults applied when neither the environment nor the config file set a value.
const (
	DefaultLogsDir            = "logs"
	DefaultScreenshotsDir     = "screenshots"
	DefaultAdditionalWaitSecs = 3
	DefaultQuestionTimeoutSec = 30
	DefaultUserAgent          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// Config is the immutable set of resolved operating parameters for one run.
type Config struct {
	// DemoMode keeps the run in non-destructive simulated mode. Only the
	// literal string "false" disables it.
	DemoMode bool

	// LogsDir is where run log files are written.
	LogsDir string

	// ScreenshotsDir is where diagnostic screenshots are written.
	ScreenshotsDir string

	// BaseURL is the page the session navigates to after launch. Required.
	BaseURL string

	// UserAgent is the browser identity string for the session.
	UserAgent string

	// AdditionalWait is the settle time applied after the page reports all
	// load signals, to absorb client-side rendering.
	AdditionalWait time.Duration

	// QuestionTimeout is the default ceiling on operator prompts.
	QuestionTimeout time.Duration

	// UserDataDir, when set, makes the session reuse a persistent browser
	// profile at that path. Optional.
	UserDataDir string

	// Headless controls whether the browser runs without a visible window.
	// Set by the runner, not the environment.
	Headless bool
}

// ValidationError reports a missing or malformed configuration parameter.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Param, e.Reason)
}

// Load resolves a Config from the environment, overlaid on file (which may
// be nil). getenv is injectable for tests; pass os.Getenv in production.
func Load(getenv func(string) string, file *FileConfig, log Logger) (*Config, error) {
	if file == nil {
		file = &FileConfig{}
	}

	cfg := &Config{Headless: true}

	demoRaw, demoSrc := resolveString(getenv, EnvDemoMode, file.demoModeString(), "true")
	cfg.DemoMode = demoRaw != "false"
	log.Infof("%s = %t (%s)", EnvDemoMode, cfg.DemoMode, demoSrc)

	for _, param := range []struct {
		key     string
		fileVal string
		def     string
		target  *string
	}{
		{EnvLogsDir, file.LogsFolderPath, DefaultLogsDir, &cfg.LogsDir},
		{EnvScreenshotsDir, file.ScreenshotFolderPath, DefaultScreenshotsDir, &cfg.ScreenshotsDir},
		{EnvBaseURL, file.BaseURL, "", &cfg.BaseURL},
		{EnvUserAgent, file.UserAgent, DefaultUserAgent, &cfg.UserAgent},
	} {
		value, source := resolveString(getenv, param.key, param.fileVal, param.def)
		*param.target = logResolved(log, param.key, value, source)
	}

	wait, err := resolveSeconds(getenv, EnvAdditionalWait, file.AdditionalWaitSeconds, DefaultAdditionalWaitSecs, log)
	if err != nil {
		return nil, err
	}
	cfg.AdditionalWait = wait

	timeout, err := resolveSeconds(getenv, EnvQuestionTimeout, file.QuestionTimeoutSeconds, DefaultQuestionTimeoutSec, log)
	if err != nil {
		return nil, err
	}
	cfg.QuestionTimeout = timeout

	cfg.UserDataDir, _ = resolveString(getenv, EnvUserDataDir, file.UserDataDir, "")
	if cfg.UserDataDir == "" {
		log.Infof("%s not set, using ephemeral browser profile", EnvUserDataDir)
	} else {
		log.Infof("%s = %s (persistent profile enabled)", EnvUserDataDir, cfg.UserDataDir)
	}

	return cfg, nil
}

// Validate checks that every required parameter is present and well formed.
// It performs no I/O; directory creation is EnsureDirectories.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return &ValidationError{Param: EnvBaseURL, Reason: "required but not set"}
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || !parsed.IsAbs() {
		return &ValidationError{Param: EnvBaseURL, Reason: fmt.Sprintf("not an absolute URL: %q", c.BaseURL)}
	}
	if c.UserAgent == "" {
		return &ValidationError{Param: EnvUserAgent, Reason: "required but not set"}
	}
	if c.AdditionalWait < 0 {
		return &ValidationError{Param: EnvAdditionalWait, Reason: "must not be negative"}
	}
	if c.QuestionTimeout <= 0 {
		return &ValidationError{Param: EnvQuestionTimeout, Reason: "must be positive"}
	}
	if c.LogsDir == "" {
		return &ValidationError{Param: EnvLogsDir, Reason: "required but not set"}
	}
	if c.ScreenshotsDir == "" {
		return &ValidationError{Param: EnvScreenshotsDir, Reason: "required but not set"}
	}
	return nil
}

// EnsureDirectories creates the logs and screenshots directories.
// Idempotent: pre-existing directories are accepted silently.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []struct {
		param string
		path  string
	}{
		{EnvLogsDir, c.LogsDir},
		{EnvScreenshotsDir, c.ScreenshotsDir},
	} {
		if err := os.MkdirAll(dir.path, 0750); err != nil {
			return &ValidationError{Param: dir.param, Reason: fmt.Sprintf("cannot create directory %q: %v", dir.path, err)}
		}
	}
	return nil
}

// resolveString picks the value for a parameter: environment first, then the
// config file, then the default. The second return names the source.
func resolveString(getenv func(string) string, key, fileVal, def string) (string, string) {
	if v := getenv(key); v != "" {
		return v, "env"
	}
	if fileVal != "" {
		return fileVal, "file"
	}
	return def, "default"
}

func resolveSeconds(getenv func(string) string, key string, fileVal *int, def int, log Logger) (time.Duration, error) {
	raw, source := "", "default"
	if v := getenv(key); v != "" {
		raw, source = v, "env"
	} else if fileVal != nil {
		raw, source = strconv.Itoa(*fileVal), "file"
	}

	seconds := def
	if raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, &ValidationError{Param: key, Reason: fmt.Sprintf("not a number: %q", raw)}
		}
		seconds = parsed
	}

	log.Infof("%s = %ds (%s)", key, seconds, source)
	return time.Duration(seconds) * time.Second, nil
}

func logResolved(log Logger, key string, value, source string) string {
	if value == "" {
		log.Warnf("%s not set", key)
	} else {
		log.Infof("%s = %s (%s)", key, value, source)
	}
	return value
}
