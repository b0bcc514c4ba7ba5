package api

import (
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
)

func newTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"t":          templateTranslate,
		"formatDate": formatTemplateDate,
		"ago":        templateAgo,
		"toJSON":     templateToJSON,
		"dict":       templateDict,
	}
}

func templateTranslate(messages map[string]string, key string) string {
	return translateMessage(messages, key)
}

func formatTemplateDate(value time.Time, layout string) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(layout)
}

func templateAgo(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return humanize.Time(value)
}

func templateToJSON(value any) template.JS {
	serialized, err := json.Marshal(value)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(serialized)
}

func templateDict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict requires key-value pairs")
	}
	result := make(map[string]any, len(values)/2)
	for index := 0; index < len(values); index += 2 {
		key, ok := values[index].(string)
		if !ok {
			return nil, fmt.Errorf("dict key at index %d is not a string", index)
		}
		result[key] = values[index+1]
	}
	return result, nil
}
