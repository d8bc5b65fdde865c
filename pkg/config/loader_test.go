package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadConfigMergesEnvironmentFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "server:\n  port: \":5000\"\ndb:\n  host: localhost\n  port: 5432\n")
	writeFile(t, dir, "production.yaml", "db:\n  host: db.internal\n")

	tree, err := LoadConfig("production", dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	var out struct {
		Server ServerConfig `yaml:"server"`
		DB     DBConfig     `yaml:"db"`
	}
	if err := Decode(tree, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.DB.Host != "db.internal" {
		t.Fatalf("expected env override of db.host, got %q", out.DB.Host)
	}
	if out.DB.Port != 5432 {
		t.Fatalf("expected base db.port to survive merge, got %d", out.DB.Port)
	}
	if out.Server.Port != ":5000" {
		t.Fatalf("server.port=%q", out.Server.Port)
	}
}

func TestLoadConfigMissingEnvironmentFileIsIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "log:\n  level: info\n")

	tree, err := LoadConfig("staging", dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	var out struct {
		Log LogConfig `yaml:"log"`
	}
	if err := Decode(tree, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Log.Level != "info" {
		t.Fatalf("log.level=%q", out.Log.Level)
	}
}

func TestLoadConfigMissingBaseFails(t *testing.T) {
	if _, err := LoadConfig("local", t.TempDir()); err == nil {
		t.Fatal("expected error without base.yaml")
	}
}

func TestLoadConfigSubstitutesSecrets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "db:\n  password: \"${FD_TEST_DB_PASSWORD}\"\n  user: \"${FD_TEST_UNDEFINED}\"\n")
	writeFile(t, dir, "secrets.env", "# local secrets\nFD_TEST_DB_PASSWORD=\"s3cret\"\n")

	tree, err := LoadConfig("local", dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	var out struct {
		DB DBConfig `yaml:"db"`
	}
	if err := Decode(tree, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.DB.Password != "s3cret" {
		t.Fatalf("password=%q", out.DB.Password)
	}
	if out.DB.User != "${FD_TEST_UNDEFINED}" {
		t.Fatalf("undefined placeholder should be kept, got %q", out.DB.User)
	}
}

func TestProcessEnvironmentWinsOverSecrets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "db:\n  password: \"${FD_TEST_DB_PASSWORD}\"\n")
	writeFile(t, dir, "secrets.env", "FD_TEST_DB_PASSWORD=from-file\n")
	t.Setenv("FD_TEST_DB_PASSWORD", "from-env")

	tree, err := LoadConfig("", dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	var out struct {
		DB DBConfig `yaml:"db"`
	}
	if err := Decode(tree, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.DB.Password != "from-env" {
		t.Fatalf("password=%q", out.DB.Password)
	}
}

func TestOverrideDBFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "freelance")

	cfg := DBConfig{Host: "localhost", Port: 5432, Name: "x", User: "u"}
	OverrideDBFromEnv(&cfg)

	if cfg.Host != "pg" || cfg.Port != 6543 || cfg.Name != "freelance" || cfg.User != "u" {
		t.Fatalf("unexpected config after override: %+v", cfg)
	}
}

func TestDBConfigDSN(t *testing.T) {
	cfg := DBConfig{Host: "h", Port: 5432, User: "u", Password: "p", Name: "n"}
	if got := cfg.DSN("postgres"); got != "postgres://u:p@h:5432/n?sslmode=disable" {
		t.Fatalf("dsn=%s", got)
	}
	cfg.SSLMode = "require"
	if got := cfg.DSN("pgx5"); got != "pgx5://u:p@h:5432/n?sslmode=require" {
		t.Fatalf("dsn=%s", got)
	}
}
