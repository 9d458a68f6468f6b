package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the environment surface as an optional YAML file.
// Environment variables always win over file values.
type FileConfig struct {
	DemoMode               *bool  `yaml:"demo_mode"`
	LogsFolderPath         string `yaml:"logs_folder_path"`
	ScreenshotFolderPath   string `yaml:"screenshot_folder_path"`
	BaseURL                string `yaml:"base_url"`
	UserAgent              string `yaml:"user_agent"`
	AdditionalWaitSeconds  *int   `yaml:"default_additional_wait_time_seconds"`
	QuestionTimeoutSeconds *int   `yaml:"question_timeout_seconds"`
	UserDataDir            string `yaml:"user_data_dir"`
}

// LoadFile parses a YAML config file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file FileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &file, nil
}

// demoModeString renders the file's demo_mode as the same string surface the
// environment uses, so both go through one resolution path.
func (f *FileConfig) demoModeString() string {
	if f.DemoMode == nil {
		return ""
	}
	return strconv.FormatBool(*f.DemoMode)
}
