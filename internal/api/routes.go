package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)
	app.Get("/", handler.ShowPickerPage)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	pickers := api.Group("/pickers")
	pickers.Post("", handler.CreatePicker)
	pickers.Get("/:id", handler.PickerAccess, handler.GetPicker)
	pickers.Delete("/:id", handler.PickerAccess, handler.DestroyPicker)
	pickers.Post("/:id/focus", handler.PickerAccess, handler.FocusPicker)
	pickers.Post("/:id/blur", handler.PickerAccess, handler.BlurPicker)
	pickers.Post("/:id/days/:date", handler.PickerAccess, handler.ClickDay)
	pickers.Post("/:id/navigate", handler.PickerAccess, handler.NavigatePicker)
	pickers.Post("/:id/time/:field", handler.PickerAccess, handler.BlurTimeField)
	pickers.Post("/:id/apply", handler.PickerAccess, handler.ApplyPicker)
	pickers.Put("/:id/start", handler.PickerAccess, handler.SetStartDate)
	pickers.Put("/:id/end", handler.PickerAccess, handler.SetEndDate)
	pickers.Get("/:id/updates", handler.PickerAccess, handler.ListRangeUpdates)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
