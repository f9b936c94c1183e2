// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"strings"
	"testing"
)

const testSecret = "kJ8#mP2$vN9@qR5!wX7&zB4*cF6^hL3-"

func TestLoad(t *testing.T) {
	t.Setenv("GATHERLY_SESSION_SECRET", testSecret)
	t.Setenv("GATHERLY_DB_PATH", "/tmp/test.db")
	t.Setenv("GATHERLY_SERVER_PORT", "9090")
	t.Setenv("GATHERLY_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q; want /tmp/test.db", cfg.DBPath)
	}
	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d; want 9090", cfg.ServerPort)
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true for production env")
	}
	if cfg.ServerAddr() != "localhost:9090" {
		t.Errorf("ServerAddr() = %q; want localhost:9090", cfg.ServerAddr())
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GATHERLY_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DBPath != "./data/gatherly.db" {
		t.Errorf("DBPath = %q; want default", cfg.DBPath)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d; want 8080", cfg.ServerPort)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false for default env")
	}
	if cfg.DoSeed {
		t.Error("DoSeed should default to false")
	}
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("GATHERLY_SESSION_SECRET", "too-short")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted a short session secret")
	}
}

func TestLoadRejectsWeakSecret(t *testing.T) {
	t.Setenv("GATHERLY_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	_, err := Load()
	if err == nil {
		t.Fatal("Load accepted a known weak secret")
	}
	if !strings.Contains(err.Error(), "known default value") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"abcdefgh", false},
		{"abcDEF123", true},
		{"abc123!@#", true},
		{"ABCDEF123456", false},
		{testSecret, true},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v; want %v", tt.secret, got, tt.want)
		}
	}
}
