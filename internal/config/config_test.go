package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir:  "/home/user/.local/share/fileserver",
		LogDir:   "/home/user/.local/share/fileserver/log",
		LogLevel: "debug",
		History:  HistoryConfig{Type: "sqlite"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if *got != *original {
		t.Errorf("Read() = %+v, want %+v", got, original)
	}
}

func TestManager_Read(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Config
		wantErr bool
	}{
		{
			name: "full config",
			input: `base_dir = "/data/fs"
log_dir = "/var/log/fs"
log_level = "warn"

[history]
type = "sqlite"
`,
			want: Config{BaseDir: "/data/fs", LogDir: "/var/log/fs", LogLevel: "warn", History: HistoryConfig{Type: "sqlite"}},
		},
		{
			name:  "missing sections stay empty",
			input: `base_dir = "/data/fs"`,
			want:  Config{BaseDir: "/data/fs"},
		},
		{
			name:    "malformed toml",
			input:   `base_dir = `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manager{}
			got, err := m.Read(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Read() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if *got != tt.want {
				t.Errorf("Read() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/fs")

	if cfg.BaseDir != "/data/fs" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/fs")
	}
	if cfg.LogDir != "/data/fs/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/fs/log")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.History.Type != "memory" {
		t.Errorf("History.Type = %q, want %q", cfg.History.Type, "memory")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "fileserver.toml")

		if err := Init(path, NewConfig(dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "fileserver.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "fileserver.toml")
		cfg := NewConfig(dir)
		cfg.History = HistoryConfig{Type: "sqlite"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.History.Type != "sqlite" {
			t.Errorf("History.Type = %q, want %q", got.History.Type, "sqlite")
		}
		if got.BaseDir != dir {
			t.Errorf("BaseDir = %q, want %q", got.BaseDir, dir)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/fileserver.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
