package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

var pickerErrorKeys = map[string]string{
	"unauthorized":            "picker.error.unauthorized",
	"picker not found":        "picker.error.not_found",
	"invalid date":            "picker.error.invalid_date",
	"invalid time":            "picker.error.invalid_time",
	"invalid time field":      "picker.error.invalid_time_field",
	"invalid delta":           "picker.error.invalid_delta",
	"invalid input":           "picker.error.invalid_input",
	"picker destroyed":        "picker.error.destroyed",
	"too many pickers":        "picker.error.rate_limited",
	"failed to load picker":   "picker.error.generic",
	"failed to update picker": "picker.error.generic",
	"failed to create picker": "picker.error.generic",
}

func translateMessage(messages map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if messages != nil {
		if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return key
}

func pickerErrorTranslationKey(message string) string {
	key, ok := pickerErrorKeys[strings.ToLower(strings.TrimSpace(message))]
	if !ok {
		return ""
	}
	return key
}

func currentLanguage(c *fiber.Ctx) string {
	language, ok := c.Locals(contextLanguageKey).(string)
	if !ok || strings.TrimSpace(language) == "" {
		return ""
	}
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, ok := c.Locals(contextMessagesKey).(map[string]string)
	if !ok || messages == nil {
		return map[string]string{}
	}
	return messages
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	if _, ok := data["Messages"]; !ok {
		data["Messages"] = currentMessages(c)
	}
	if _, ok := data["Lang"]; !ok {
		data["Lang"] = handler.currentOrDefaultLanguage(c)
	}
	if _, ok := data["CurrentPath"]; !ok {
		data["CurrentPath"] = currentPathWithQuery(c)
	}
	if _, ok := data["CSRFToken"]; !ok {
		data["CSRFToken"] = csrfToken(c)
	}
	return data
}

func (handler *Handler) currentOrDefaultLanguage(c *fiber.Ctx) string {
	language := currentLanguage(c)
	if language == "" {
		language = handler.i18n.DefaultLanguage()
	}
	return language
}

func currentPathWithQuery(c *fiber.Ctx) string {
	path := string(c.Request().URI().RequestURI())
	if path == "" {
		return c.Path()
	}
	return path
}
