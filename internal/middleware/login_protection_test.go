// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLoginProtectionConfig(maxAttempts int, lockoutDuration, attemptWindow time.Duration) LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockoutDuration,
		AttemptWindow:     attemptWindow,
	}
}

func TestDefaultLoginProtectionConfig(t *testing.T) {
	cfg := DefaultLoginProtectionConfig()

	if cfg.IPRateLimit != 0.5 {
		t.Errorf("IPRateLimit = %v, want 0.5", cfg.IPRateLimit)
	}
	if cfg.MaxFailedAttempts != 5 {
		t.Errorf("MaxFailedAttempts = %d, want 5", cfg.MaxFailedAttempts)
	}
	if cfg.LockoutDuration != 15*time.Minute {
		t.Errorf("LockoutDuration = %v, want 15m", cfg.LockoutDuration)
	}
}

func TestLoginProtectionAccountLockout(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(3, time.Minute, time.Minute))
	email := "test@example.com"

	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("Account should not be locked initially")
	}

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("Account should not be locked before reaching the limit")
	}

	nowLocked, duration := lp.RecordFailedAttempt(email)
	if !nowLocked {
		t.Fatal("Account should be locked after 3 failed attempts")
	}
	if duration != time.Minute {
		t.Errorf("lock duration = %v, want 1m", duration)
	}

	if locked, remaining := lp.IsAccountLocked(email); !locked || remaining <= 0 {
		t.Errorf("IsAccountLocked = (%v, %v), want locked with remaining time", locked, remaining)
	}
}

func TestLoginProtectionSuccessClearsAttempts(t *testing.T) {
	lp := NewLoginProtection(testLoginProtectionConfig(3, time.Minute, time.Minute))
	email := "test@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	if got := lp.GetRemainingAttempts(email); got != 3 {
		t.Errorf("GetRemainingAttempts = %d, want 3", got)
	}
}

func TestLoginProtectionMiddlewareSkipsGet(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 1})
	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// GET requests bypass the limiter entirely
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET request %d: status = %d, want 200", i, rec.Code)
		}
	}
}

func TestLoginProtectionMiddlewareLimitsPost(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 1})
	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first POST: status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/user/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second POST: status = %d, want 429", rec.Code)
	}
}
