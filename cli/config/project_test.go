package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write project file: %v", err)
	}
	return dir
}

func TestLoadProject_Full(t *testing.T) {
	dir := writeProject(t, `java_version: 17
target: linux-aarch64
jvm_args:
  - -Xmx512m
  - -Dapp.env=prod
shrink: true
profile: native
appcds: false
crac: true
compact_banner: true
`)
	cfg, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if cfg.JavaVersion == nil || *cfg.JavaVersion != 17 {
		t.Error("java_version not parsed")
	}
	if cfg.Target == nil || *cfg.Target != "linux-aarch64" {
		t.Error("target not parsed")
	}
	if len(cfg.JVMArgs) != 2 || cfg.JVMArgs[1] != "-Dapp.env=prod" {
		t.Errorf("jvm_args = %v", cfg.JVMArgs)
	}
	if cfg.Shrink == nil || !*cfg.Shrink {
		t.Error("shrink not parsed")
	}
	if cfg.Profile == nil || *cfg.Profile != "native" {
		t.Error("profile not parsed")
	}
	if cfg.AppCDS == nil || *cfg.AppCDS {
		t.Error("appcds: false should parse as explicit false")
	}
	if cfg.CRaC == nil || !*cfg.CRaC {
		t.Error("crac not parsed")
	}
	if cfg.CompactBanner == nil || !*cfg.CompactBanner {
		t.Error("compact_banner not parsed")
	}
}

func TestLoadProject_Missing(t *testing.T) {
	cfg, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg != nil {
		t.Error("missing file should yield nil config")
	}
}

func TestLoadProject_Empty(t *testing.T) {
	dir := writeProject(t, "")
	cfg, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("empty file should yield empty config")
	}
	if cfg.JavaVersion != nil || cfg.Shrink != nil {
		t.Error("empty file fields should be absent")
	}
}

func TestLoadProject_InvalidYAML(t *testing.T) {
	dir := writeProject(t, "{{not yaml")
	if _, err := LoadProject(dir); err == nil {
		t.Error("invalid YAML should fail")
	}
}
