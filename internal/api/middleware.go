package api

const (
	pickerCookieName      = "rangepick_picker"
	languageCookieName    = "rangepick_lang"
	contextLanguageKey    = "current_language"
	contextMessagesKey    = "current_messages"
	contextPickerIDKey    = "current_picker_id"
	contextPickerTokenKey = "current_picker_token"
)
