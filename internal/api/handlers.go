package api

import (
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/terraincognita07/rangepick/internal/db"
	"github.com/terraincognita07/rangepick/internal/i18n"
	"github.com/terraincognita07/rangepick/internal/services"
	"gorm.io/gorm"
)

const defaultPickerTokenTTL = 24 * time.Hour

type Handler struct {
	database     *gorm.DB
	pickers      *services.PickerService
	location     *time.Location
	cookieSecure bool
	i18n         *i18n.Manager
	tokens       *pickerTokenCodec
	creations    *createLimiter
	templates    map[string]*template.Template
	partials     map[string]*template.Template
}

type createPickerInput struct {
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
}

type dateInput struct {
	Date string `json:"date" form:"date"`
}

type timeInput struct {
	Value string `json:"value" form:"value"`
}

func NewHandler(database *gorm.DB, secret string, templateDir string, location *time.Location, i18nManager *i18n.Manager, cookieSecure bool) (*Handler, error) {
	if location == nil {
		location = time.Local
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("secret key is required")
	}

	tokens, err := newPickerTokenCodec([]byte(secret), defaultPickerTokenTTL)
	if err != nil {
		return nil, err
	}

	funcMap := newTemplateFuncMap()

	templates, err := parsePageTemplates(templateDir, funcMap, pageTemplates)
	if err != nil {
		return nil, err
	}
	partials, err := parsePartialTemplates(templateDir, funcMap, partialTemplateFiles)
	if err != nil {
		return nil, err
	}

	repositories := db.NewRepositories(database)
	return &Handler{
		database:     database,
		pickers:      services.NewPickerService(repositories.Pickers, repositories.Updates, location),
		location:     location,
		cookieSecure: cookieSecure,
		i18n:         i18nManager,
		tokens:       tokens,
		creations:    newCreateLimiter(pickerCreateLimit, pickerCreateWindow),
		templates:    templates,
		partials:     partials,
	}, nil
}

// Pickers exposes the picker service for background maintenance.
func (handler *Handler) Pickers() *services.PickerService {
	return handler.pickers
}
