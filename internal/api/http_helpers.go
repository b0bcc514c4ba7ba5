package api

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// apiError answers htmx callers with a localized status fragment and
// everyone else with {"error": message}.
func apiError(c *fiber.Ctx, status int, message string) error {
	if isHTMX(c) {
		c.Status(status)
		c.Type("html", "utf-8")
		return c.SendString(statusErrorFragment(localizedErrorMessage(currentMessages(c), message)))
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func localizedErrorMessage(messages map[string]string, message string) string {
	key := pickerErrorTranslationKey(message)
	if key == "" {
		return message
	}
	if localized := translateMessage(messages, key); localized != key {
		return localized
	}
	return message
}

func statusErrorFragment(message string) string {
	return fmt.Sprintf("<div class=\"status-error\" role=\"alert\">%s</div>", template.HTMLEscapeString(message))
}

func acceptsJSON(c *fiber.Ctx) bool {
	return strings.Contains(strings.ToLower(c.Get("Accept")), "application/json")
}

func isHTMX(c *fiber.Ctx) bool {
	return strings.EqualFold(c.Get("HX-Request"), "true")
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals("csrf").(string)
	return token
}

func localizedPageTitle(messages map[string]string, key string, fallback string) string {
	title := translateMessage(messages, key)
	if title == key || strings.TrimSpace(title) == "" {
		return fallback
	}
	return title
}

func sanitizeRedirectPath(raw string, fallback string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return fallback
	}
	if strings.HasPrefix(candidate, "//") || !strings.HasPrefix(candidate, "/") {
		return fallback
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.IsAbs() {
		return fallback
	}
	return candidate
}
