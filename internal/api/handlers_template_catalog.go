package api

var pageTemplates = []string{
	"picker",
	"not_found",
}

// sharedTemplateFiles are parsed into every page so pages can embed them.
var sharedTemplateFiles = []string{"picker_widget.html", "range_history.html"}

var partialTemplateFiles = []string{"picker_widget.html", "range_history.html"}
