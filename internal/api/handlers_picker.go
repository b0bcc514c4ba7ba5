package api

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rangepick/internal/services"
)

const maxNavigateDelta = 12

var errTooManyPickers = errors.New("too many pickers")

func (handler *Handler) ShowPickerPage(c *fiber.Ctx) error {
	language := handler.currentOrDefaultLanguage(c)
	messages := currentMessages(c)

	pickerID, state, err := handler.pickerFromCookie(c)
	if err != nil {
		options, parseErr := handler.parsePickerOptions(c.Query("start"), c.Query("end"))
		if parseErr != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid date")
		}
		pickerID, state, err = handler.createPickerSession(c, options)
		if errors.Is(err, errTooManyPickers) {
			return apiError(c, fiber.StatusTooManyRequests, "too many pickers")
		}
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to create picker")
		}
	}

	history, err := handler.pickers.History(pickerID, 0)
	if err != nil {
		log.Printf("picker page: load history for %s: %v", pickerID, err)
		history = nil
	}

	data := handler.buildPickerWidgetData(pickerID, state, language, messages)
	data["Title"] = localizedPageTitle(messages, "meta.title.picker", "Range picker")
	data["History"] = buildHistoryEntries(history, language, time.Now())
	return handler.render(c, "picker", data)
}

func (handler *Handler) CreatePicker(c *fiber.Ctx) error {
	input := createPickerInput{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
	}

	options, err := handler.parsePickerOptions(input.StartDate, input.EndDate)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	pickerID, state, err := handler.createPickerSession(c, options)
	if errors.Is(err, errTooManyPickers) {
		return apiError(c, fiber.StatusTooManyRequests, "too many pickers")
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create picker")
	}

	c.Status(fiber.StatusCreated)
	if wantsPickerJSON(c) {
		payload := buildPickerPayload(pickerID, state, handler.location)
		payload.Token, _ = c.Locals(contextPickerTokenKey).(string)
		return c.JSON(payload)
	}
	return handler.respondPicker(c, pickerID, state)
}

func (handler *Handler) GetPicker(c *fiber.Ctx) error {
	pickerID := currentPickerID(c)
	state, err := handler.pickers.Load(pickerID)
	if err != nil {
		return handler.respondPickerError(c, err)
	}
	return handler.respondPicker(c, pickerID, state)
}

func (handler *Handler) FocusPicker(c *fiber.Ctx) error {
	return handler.setPickerVisibility(c, true)
}

func (handler *Handler) BlurPicker(c *fiber.Ctx) error {
	return handler.setPickerVisibility(c, false)
}

func (handler *Handler) ClickDay(c *fiber.Ctx) error {
	pickerID := currentPickerID(c)
	day, err := services.ParseCellDate(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	state, changed, err := handler.pickers.Click(pickerID, day)
	if err != nil {
		return handler.respondPickerError(c, err)
	}
	if !changed {
		c.Set("X-Picker-Click", "ignored")
	}
	return handler.respondPicker(c, pickerID, state)
}

func (handler *Handler) NavigatePicker(c *fiber.Ctx) error {
	pickerID := currentPickerID(c)
	delta, err := parseNavigateDelta(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid delta")
	}

	state, err := handler.pickers.Mutate(pickerID, func(picker *services.RangePicker) error {
		return picker.Navigate(delta)
	})
	if err != nil {
		return handler.respondPickerError(c, err)
	}
	return handler.respondPicker(c, pickerID, state)
}

func (handler *Handler) BlurTimeField(c *fiber.Ctx) error {
	pickerID := currentPickerID(c)
	input := timeInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	state, err := handler.pickers.Mutate(pickerID, func(picker *services.RangePicker) error {
		return picker.BlurTime(c.Params("field"), input.Value)
	})
	if err != nil {
		return handler.respondPickerError(c, err)
	}
	return handler.respondPicker(c, pickerID, state)
}

func (handler *Handler) ApplyPicker(c *fiber.Ctx) error {
	pickerID := currentPickerID(c)
	state, event, err := handler.pickers.Apply(pickerID)
	if err != nil {
		return handler.respondPickerError(c, err)
	}

	trigger, err := json.Marshal(fiber.Map{"onUpdate": event})
	if err == nil {
		c.Set("HX-Trigger", string(trigger))
	}
	if wantsPickerJSON(c) {
		return c.JSON(event)
	}
	return handler.respondPicker(c, pickerID, state)
}

func (handler *Handler) SetStartDate(c *fiber.Ctx) error {
	return handler.setRangeEnd(c, services.TimeFieldFrom)
}

func (handler *Handler) SetEndDate(c *fiber.Ctx) error {
	return handler.setRangeEnd(c, services.TimeFieldTo)
}

func (handler *Handler) DestroyPicker(c *fiber.Ctx) error {
	if err := handler.pickers.Destroy(currentPickerID(c)); err != nil {
		return handler.respondPickerError(c, err)
	}
	handler.clearPickerCookie(c)
	if isHTMX(c) {
		return c.SendString("")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) ListRangeUpdates(c *fiber.Ctx) error {
	pickerID := currentPickerID(c)
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
		limit = parsed
	}

	history, err := handler.pickers.History(pickerID, limit)
	if err != nil {
		return handler.respondPickerError(c, err)
	}
	if wantsPickerJSON(c) {
		return c.JSON(history)
	}
	return handler.renderPartial(c, "range_history", fiber.Map{
		"History": buildHistoryEntries(history, handler.currentOrDefaultLanguage(c), time.Now()),
	})
}

func (handler *Handler) setPickerVisibility(c *fiber.Ctx, visible bool) error {
	pickerID := currentPickerID(c)
	state, err := handler.pickers.Mutate(pickerID, func(picker *services.RangePicker) error {
		return picker.Update(services.PickerProps{Visible: &visible})
	})
	if err != nil {
		return handler.respondPickerError(c, err)
	}
	return handler.respondPicker(c, pickerID, state)
}

func (handler *Handler) setRangeEnd(c *fiber.Ctx, field string) error {
	pickerID := currentPickerID(c)
	input := dateInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	value, err := services.ParseOptionTime(input.Date, handler.location, time.Time{})
	if err != nil || value.IsZero() {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	state, err := handler.pickers.Mutate(pickerID, func(picker *services.RangePicker) error {
		if field == services.TimeFieldFrom {
			return picker.SetStartDate(value)
		}
		return picker.SetEndDate(value)
	})
	if err != nil {
		return handler.respondPickerError(c, err)
	}
	return handler.respondPicker(c, pickerID, state)
}

func (handler *Handler) respondPicker(c *fiber.Ctx, pickerID string, state services.PickerState) error {
	if wantsPickerJSON(c) {
		return c.JSON(buildPickerPayload(pickerID, state, handler.location))
	}
	language := handler.currentOrDefaultLanguage(c)
	return handler.renderPartial(c, "picker_widget", handler.buildPickerWidgetData(pickerID, state, language, currentMessages(c)))
}

func (handler *Handler) respondPickerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPickerNotFound):
		return apiError(c, fiber.StatusNotFound, "picker not found")
	case errors.Is(err, services.ErrPickerDestroyed):
		return apiError(c, fiber.StatusGone, "picker destroyed")
	case errors.Is(err, services.ErrTimeFieldInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid time field")
	case errors.Is(err, services.ErrTimeOfDayInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid time")
	case errors.Is(err, services.ErrCellDateInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	case errors.Is(err, services.ErrPickerLoadFailed), errors.Is(err, services.ErrRangeHistoryFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to load picker")
	default:
		return apiError(c, fiber.StatusInternalServerError, "failed to update picker")
	}
}

func (handler *Handler) parsePickerOptions(rawStart string, rawEnd string) (services.PickerOptions, error) {
	start, err := services.ParseOptionTime(rawStart, handler.location, time.Time{})
	if err != nil {
		return services.PickerOptions{}, err
	}
	end, err := services.ParseOptionTime(rawEnd, handler.location, time.Time{})
	if err != nil {
		return services.PickerOptions{}, err
	}
	return services.PickerOptions{StartDate: start, EndDate: end}, nil
}

func (handler *Handler) createPickerSession(c *fiber.Ctx, options services.PickerOptions) (string, services.PickerState, error) {
	if !handler.creations.allow(requestLimiterKey(c), time.Now()) {
		return "", services.PickerState{}, errTooManyPickers
	}
	pickerID, state, err := handler.pickers.Create(options)
	if err != nil {
		return "", services.PickerState{}, err
	}
	token, err := handler.tokens.issue(pickerID, time.Now())
	if err != nil {
		return "", services.PickerState{}, err
	}
	handler.setPickerCookie(c, token)
	c.Locals(contextPickerTokenKey, token)
	return pickerID, state, nil
}

func (handler *Handler) pickerFromCookie(c *fiber.Ctx) (string, services.PickerState, error) {
	pickerID, err := handler.tokens.parse(strings.TrimSpace(c.Cookies(pickerCookieName)))
	if err != nil {
		return "", services.PickerState{}, err
	}
	state, err := handler.pickers.Load(pickerID)
	if err != nil {
		return "", services.PickerState{}, err
	}
	return pickerID, state, nil
}

func parseNavigateDelta(c *fiber.Ctx) (int, error) {
	raw := strings.TrimSpace(c.Query("delta"))
	if raw == "" {
		raw = strings.TrimSpace(c.FormValue("delta"))
	}
	delta, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if delta == 0 || delta > maxNavigateDelta || delta < -maxNavigateDelta {
		return 0, errors.New("delta out of range")
	}
	return delta, nil
}

// wantsPickerJSON reports whether the caller is an API client rather than the
// htmx widget.
func wantsPickerJSON(c *fiber.Ctx) bool {
	return acceptsJSON(c) || !isHTMX(c)
}
