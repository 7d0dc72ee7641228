package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `register_url: https://example.org/register
comment_url: mailto:mail@example.org
database: /tmp/register.sqlite
data_dir: /tmp/dicts
user_agent: test-agent/1.0
timeout_seconds: 30
log_style: json
log_level: debug
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	want := yamlConfig{
		RegisterURL:    "https://example.org/register",
		CommentURL:     "mailto:mail@example.org",
		Database:       "/tmp/register.sqlite",
		DataDir:        "/tmp/dicts",
		UserAgent:      "test-agent/1.0",
		TimeoutSeconds: 30,
		LogStyle:       "json",
		LogLevel:       "debug",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("loadConfig() = %+v, want %+v", got, want)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("loadConfig() expected error for missing file")
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("register_url: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Error("loadConfig() expected error for malformed YAML")
	}
}
