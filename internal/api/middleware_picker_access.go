package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PickerAccess only lets a request drive the picker its token was issued for.
// API clients send the token as a bearer header, browsers carry it in the
// picker cookie.
func (handler *Handler) PickerAccess(c *fiber.Ctx) error {
	pickerID, err := handler.tokens.parse(pickerTokenFromRequest(c))
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if pickerID != strings.TrimSpace(c.Params("id")) {
		return apiError(c, fiber.StatusNotFound, "picker not found")
	}

	c.Locals(contextPickerIDKey, pickerID)
	return c.Next()
}

func pickerTokenFromRequest(c *fiber.Ctx) string {
	authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if scheme, token, found := strings.Cut(authorization, " "); found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(c.Cookies(pickerCookieName))
}

func currentPickerID(c *fiber.Ctx) string {
	pickerID, _ := c.Locals(contextPickerIDKey).(string)
	return pickerID
}

func (handler *Handler) setPickerCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     pickerCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(handler.tokens.ttl),
	})
}

func (handler *Handler) clearPickerCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     pickerCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
