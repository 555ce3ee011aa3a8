package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pluots/udf-suite/pkg/errors"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLibraryFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Library
		wantErr bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: DefaultLibraryConfig(),
		},
		{
			name: "overrides",
			env: map[string]string{
				EnvLogLevel:  "debug",
				EnvLogFormat: "json",
				EnvLogBuffer: "16",
			},
			want: Library{LogLevel: "debug", LogFormat: "json", LogBuffer: 16},
		},
		{
			name:    "bad buffer",
			env:     map[string]string{EnvLogBuffer: "-1"},
			wantErr: true,
		},
		{
			name:    "bad level",
			env:     map[string]string{EnvLogLevel: "chatty"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LibraryFromEnv(envMap(tt.env))
			if tt.wantErr {
				if !errors.IsCategory(err, "configuration") {
					t.Fatalf("expected configuration error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadInstaller(t *testing.T) {
	path := filepath.Join(t.TempDir(), "udfctl.yaml")
	data := []byte(`
dsn: "root:pw@tcp(127.0.0.1:3306)/"
library_path: /usr/lib/mysql/plugin/libudf_suite.so
functions: [uuid_nil, jsonify]
replace: true
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadInstaller(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Library != DefaultLibrary {
		t.Errorf("Library = %q, want default", cfg.Library)
	}
	if !cfg.Replace || len(cfg.Functions) != 2 || cfg.Functions[1] != "jsonify" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default", cfg.LogLevel)
	}
}

func TestLoadInstallerErrors(t *testing.T) {
	_, err := LoadInstaller(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.IsCode(err, errors.ErrCodeConfigMissing) {
		t.Errorf("missing file: got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("functions: {"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadInstaller(path)
	if !errors.IsCode(err, errors.ErrCodeConfigParse) {
		t.Errorf("bad yaml: got %v", err)
	}
}
