package api

import (
	"bytes"
	"html/template"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Health reports whether the picker store still answers.
func (handler *Handler) Health(c *fiber.Ctx) error {
	sqlDB, err := handler.database.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		log.Printf("health: picker store unavailable: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// render executes a full page through the shared base layout.
func (handler *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	return handler.execute(c, handler.templates[name], "base", name, data)
}

// renderPartial executes a single htmx fragment.
func (handler *Handler) renderPartial(c *fiber.Ctx, name string, data fiber.Map) error {
	return handler.execute(c, handler.partials[name], name, name, data)
}

func (handler *Handler) execute(c *fiber.Ctx, tmpl *template.Template, entry string, name string, data fiber.Map) error {
	if tmpl == nil {
		log.Printf("render: template %q is not registered", name)
		return c.Status(fiber.StatusInternalServerError).SendString("template not found")
	}

	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, entry, handler.withTemplateDefaults(c, data)); err != nil {
		log.Printf("render: execute %q: %v", name, err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render template")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}
