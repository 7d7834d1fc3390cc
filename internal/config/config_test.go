package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/scribe/internal/config"
	"github.com/JaimeStill/scribe/internal/notes"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[backend]
base_url = "https://notes.example.com"
timeout = "2m"

[transfer]
provider = "http"

[upload]
contract = "structured"
accept = ["audio/wav"]

[api]
base_path = "/api"
app_path = "/app"
max_upload_size = "25MB"

[api.cors]
enabled = false

[log]
level = "debug"
format = "json"
`

const overlayConfig = `
[server]
port = 9090

[transfer]
provider = "azure"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "https://notes.example.com" {
		t.Errorf("backend base_url: got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.PresignPath != "/presign" {
		t.Errorf("backend presign_path default: got %s, want /presign", cfg.Backend.PresignPath)
	}
	if d := cfg.Backend.TimeoutDuration(); d != 2*time.Minute {
		t.Errorf("backend timeout: got %v, want 2m", d)
	}
	if cfg.Transfer.Provider != "http" {
		t.Errorf("transfer provider: got %s, want http", cfg.Transfer.Provider)
	}
	if cfg.Upload.ResultContract() != notes.ContractStructured {
		t.Errorf("upload contract: got %s, want structured", cfg.Upload.Contract)
	}
	if cfg.API.AppPath != "/app" {
		t.Errorf("api app_path: got %s, want /app", cfg.API.AppPath)
	}
	if got := cfg.API.MaxUploadSizeBytes(); got != 25*1024*1024 {
		t.Errorf("max upload size: got %d, want 25MB", got)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log format: got %s, want json", cfg.Log.Format)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv(config.EnvScribeEnv, "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Transfer.Provider != "azure" {
		t.Errorf("transfer provider: got %s, want azure (from overlay)", cfg.Transfer.Provider)
	}
	if cfg.Backend.BaseURL != "https://notes.example.com" {
		t.Errorf("backend base_url: got %s (from base)", cfg.Backend.BaseURL)
	}
}

func TestLoadProgrammaticOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	overlay := &config.Config{}
	overlay.Backend.BaseURL = "http://localhost:5000"
	overlay.Upload.Contract = "document"

	cfg, err := config.Load(overlay)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Backend.BaseURL != "http://localhost:5000" {
		t.Errorf("backend base_url: got %s, want http://localhost:5000", cfg.Backend.BaseURL)
	}
	if cfg.Upload.ResultContract() != notes.ContractDocument {
		t.Errorf("upload contract: got %s, want document", cfg.Upload.Contract)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	t.Setenv("SCRIBE_VERSION", "2.0.0")
	t.Setenv("SCRIBE_SERVER_PORT", "3000")
	t.Setenv("SCRIBE_BACKEND_BASE_URL", "https://override.example.com")
	t.Setenv("SCRIBE_UPLOAD_ACCEPT", "audio/wav,audio/mpeg")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "https://override.example.com" {
		t.Errorf("backend base_url: got %s", cfg.Backend.BaseURL)
	}
	if len(cfg.Upload.Accept) != 2 {
		t.Errorf("upload accept: got %v, want 2 entries", cfg.Upload.Accept)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.DotEnvFile, "SCRIBE_BACKEND_BASE_URL=http://dotenv.local:7000\n")
	chdir(t, dir)

	t.Setenv("SCRIBE_BACKEND_BASE_URL", "")
	os.Unsetenv("SCRIBE_BACKEND_BASE_URL")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Backend.BaseURL != "http://dotenv.local:7000" {
		t.Errorf("backend base_url from .env: got %s", cfg.Backend.BaseURL)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("SCRIBE_BACKEND_BASE_URL", "http://localhost:5000")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path default: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.Transfer.Provider != "http" {
		t.Errorf("transfer provider default: got %s, want http", cfg.Transfer.Provider)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log defaults: got %s/%s, want info/text", cfg.Log.Level, cfg.Log.Format)
	}
	if got := cfg.API.MaxUploadSizeBytes(); got != 50*1024*1024 {
		t.Errorf("max upload size default: got %d, want 50MB", got)
	}
}

func TestLoadMissingBackend(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error without backend base_url")
	}
	if !strings.Contains(err.Error(), "backend") {
		t.Errorf("error %q should name the backend section", err)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, `shutdown_timeout = `)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnvDefault(t *testing.T) {
	cfg := &config.Config{}
	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}

	t.Setenv(config.EnvScribeEnv, "production")
	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "invalid port",
			config:  "[server]\nport = 99999\n",
			wantErr: "invalid port",
		},
		{
			name:    "invalid read_timeout",
			config:  "[server]\nread_timeout = \"bad\"\n",
			wantErr: "invalid read_timeout",
		},
		{
			name:    "invalid idle_timeout",
			config:  "[server]\nidle_timeout = \"soon\"\n",
			wantErr: "invalid idle_timeout",
		},
		{
			name:    "unknown transfer provider",
			config:  "[transfer]\nprovider = \"gcs\"\n",
			wantErr: "unknown provider",
		},
		{
			name:    "unknown contract",
			config:  "[upload]\ncontract = \"xml\"\n",
			wantErr: "unknown result contract",
		},
		{
			name:    "nested app path",
			config:  "[api]\napp_path = \"/ui/app\"\n",
			wantErr: "app_path",
		},
		{
			name:    "log format",
			config:  "[log]\nformat = \"yaml\"\n",
			wantErr: "invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, config.BaseConfigFile, "[backend]\nbase_url = \"http://localhost:5000\"\n"+tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 50MB", "50MB", 50 * 1024 * 1024},
		{"valid 10MB", "10MB", 10 * 1024 * 1024},
		{"invalid falls back to 50MB", "bad", 50 * 1024 * 1024},
		{"empty falls back to 50MB", "", 50 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestServerMerge(t *testing.T) {
	base := config.ServerConfig{Port: 8080, ReadTimeout: "1m", IdleTimeout: "2m"}
	base.Merge(&config.ServerConfig{Port: 9000, IdleTimeout: "5m"})

	if base.Port != 9000 {
		t.Errorf("port: got %d, want 9000", base.Port)
	}
	if base.ReadTimeout != "1m" {
		t.Errorf("read_timeout: got %s, want 1m (unchanged)", base.ReadTimeout)
	}
	if base.IdleTimeout != "5m" {
		t.Errorf("idle_timeout: got %s, want 5m", base.IdleTimeout)
	}
}
