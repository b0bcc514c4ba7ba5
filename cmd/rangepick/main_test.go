package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestResolveSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY is empty")
	}

	t.Setenv("SECRET_KEY", "change_me_in_production")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY uses insecure placeholder")
	}

	t.Setenv("SECRET_KEY", "replace_with_at_least_32_random_characters")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY uses example placeholder")
	}

	t.Setenv("SECRET_KEY", "too-short-secret")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY is too short")
	}

	valid := "0123456789abcdef0123456789abcdef"
	t.Setenv("SECRET_KEY", valid)

	secret, err := resolveSecretKey()
	if err != nil {
		t.Fatalf("expected valid secret, got error: %v", err)
	}
	if secret != valid {
		t.Fatalf("expected %q, got %q", valid, secret)
	}
}

func TestResolvePort(t *testing.T) {
	t.Setenv("PORT", "")
	port, err := resolvePort()
	if err != nil || port != "8080" {
		t.Fatalf("expected default port 8080, got %q (%v)", port, err)
	}

	for _, invalid := range []string{"0", "70000", "not-a-number"} {
		t.Setenv("PORT", invalid)
		if _, err := resolvePort(); err == nil {
			t.Fatalf("expected invalid port %q to fail", invalid)
		}
	}
}

func TestParsePickerTTL(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{raw: "", want: defaultPickerTTL},
		{raw: "90m", want: 90 * time.Minute},
		{raw: " 2h ", want: 2 * time.Hour},
		{raw: "0s", wantErr: true},
		{raw: "-1h", wantErr: true},
		{raw: "soon", wantErr: true},
	}
	for _, test := range tests {
		got, err := parsePickerTTL(test.raw)
		if test.wantErr {
			if err == nil {
				t.Fatalf("parsePickerTTL(%q): expected error", test.raw)
			}
			continue
		}
		if err != nil || got != test.want {
			t.Fatalf("parsePickerTTL(%q) = %s, %v; want %s", test.raw, got, err, test.want)
		}
	}
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/rangepick-test.db")
	t.Setenv("TZ", "Europe/Berlin")
	t.Setenv("DEFAULT_LANGUAGE", "ru")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("PICKER_TTL", "6h")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "9090" || cfg.DBPath != "/tmp/rangepick-test.db" || cfg.DefaultLanguage != "ru" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.CookieSecure || cfg.PickerTTL != 6*time.Hour {
		t.Fatalf("unexpected flags %+v", cfg)
	}
	if cfg.Location.String() != "Europe/Berlin" {
		t.Fatalf("unexpected location %s", cfg.Location)
	}

	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("DB_PATH", "")
	cfg, err = loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CookieSecure {
		t.Fatal("expected invalid COOKIE_SECURE to fall back to false")
	}
	if cfg.DBPath != filepath.Join("data", "rangepick.db") {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
}

func TestCSRFMiddlewareConfigUsesCookieSecureFlag(t *testing.T) {
	secureConfig := csrfMiddlewareConfig(true)
	if !secureConfig.CookieSecure {
		t.Fatal("expected csrf cookie secure flag to be enabled")
	}
	if secureConfig.CookieName != "rangepick_csrf" {
		t.Fatalf("expected csrf cookie name rangepick_csrf, got %q", secureConfig.CookieName)
	}
	if secureConfig.KeyLookup != "header:X-CSRF-Token" {
		t.Fatalf("expected csrf key lookup header:X-CSRF-Token, got %q", secureConfig.KeyLookup)
	}

	insecureConfig := csrfMiddlewareConfig(false)
	if insecureConfig.CookieSecure {
		t.Fatal("expected csrf cookie secure flag to be disabled")
	}
}

func TestSkipCSRFForAPIClients(t *testing.T) {
	app := fiber.New()
	app.Post("/csrf-check", func(c *fiber.Ctx) error {
		if skipCSRF(c) {
			return c.SendString("skip")
		}
		return c.SendString("check")
	})

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "bearer", headers: map[string]string{"Authorization": "Bearer abc"}, want: "skip"},
		{name: "json", headers: map[string]string{"Content-Type": "application/json; charset=utf-8"}, want: "skip"},
		{name: "form", headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"}, want: "check"},
		{name: "basic", headers: map[string]string{"Authorization": "Basic abc"}, want: "check"},
	}
	for _, test := range tests {
		request := httptest.NewRequest(http.MethodPost, "/csrf-check", strings.NewReader(""))
		for key, value := range test.headers {
			request.Header.Set(key, value)
		}
		response, err := app.Test(request, -1)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", test.name, err)
		}
		body := new(bytes.Buffer)
		_, _ = body.ReadFrom(response.Body)
		response.Body.Close()
		if body.String() != test.want {
			t.Fatalf("%s: expected %q, got %q", test.name, test.want, body.String())
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"serve", "tui", "prune"} {
		command, _, err := root.Find([]string{name})
		if err != nil || command.Name() != name {
			t.Fatalf("expected %s subcommand, got %v (%v)", name, command, err)
		}
	}
}

func TestPruneCommandDeletesIdleSessions(t *testing.T) {
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "prune.db"))
	t.Setenv("PICKER_TTL", "")

	root := newRootCommand()
	output := new(bytes.Buffer)
	root.SetOut(output)
	root.SetArgs([]string{"prune", "--older-than", "1h"})
	if err := root.Execute(); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if !strings.Contains(output.String(), "pruned 0 picker session(s) idle longer than 1h0m0s") {
		t.Fatalf("unexpected output %q", output.String())
	}

	root = newRootCommand()
	root.SetArgs([]string{"prune", "--older-than", "never"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected invalid threshold to fail")
	}
}
