package config

import (
	"strings"
	"testing"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("USER_TOKEN_SECRET", "user-secret-0123456789abcdef")
	t.Setenv("ADMIN_TOKEN_SECRET", "admin-secret-0123456789abcdef")
}

func TestLoadDefaults(t *testing.T) {
	setValidEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":3001" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.StoreDriver != "sqlite" {
		t.Fatalf("StoreDriver = %q", cfg.StoreDriver)
	}
	if cfg.UserTokenTTL.Hours() != 24 || cfg.AdminTokenTTL.Hours() != 8 {
		t.Fatalf("token TTLs = %v/%v", cfg.UserTokenTTL, cfg.AdminTokenTTL)
	}
	if cfg.PasswordMinLength != 6 {
		t.Fatalf("PasswordMinLength = %d", cfg.PasswordMinLength)
	}
}

func TestLoadRejectsShortSecrets(t *testing.T) {
	t.Setenv("USER_TOKEN_SECRET", "short")
	t.Setenv("ADMIN_TOKEN_SECRET", "also-short")
	if _, err := Load(); err == nil {
		t.Fatal("short secrets accepted")
	}
}

func TestLoadRejectsEqualSecrets(t *testing.T) {
	t.Setenv("USER_TOKEN_SECRET", "same-secret-0123456789abcdef")
	t.Setenv("ADMIN_TOKEN_SECRET", "same-secret-0123456789abcdef")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "differ") {
		t.Fatalf("equal secrets accepted, err=%v", err)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setValidEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("unknown driver accepted")
	}
}

func TestLoadMySQLRequiresDSN(t *testing.T) {
	setValidEnv(t)
	t.Setenv("STORE_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Fatal("mysql without DSN accepted")
	}
	t.Setenv("APP_DB_DSN", "app:app@tcp(127.0.0.1:3306)/app?parseTime=true")
	if _, err := Load(); err != nil {
		t.Fatalf("mysql with DSN rejected: %v", err)
	}
}

func TestLoadRejectsSMTPWithoutRecipient(t *testing.T) {
	setValidEnv(t)
	t.Setenv("NOTIFY_SENDER", "smtp")
	if _, err := Load(); err == nil {
		t.Fatal("smtp sender without NOTIFY_TO accepted")
	}
}
