package templates

import (
	"net/url"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// TemplateFuncMap returns all helper functions for templates.
func TemplateFuncMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["pathEscape"] = url.PathEscape
	fm["issueNumber"] = issueNumber
	return fm
}

// issueNumber returns the numeric part of an issue key ("AAD-42" -> "42").
// Keys without a dash are returned unchanged.
func issueNumber(key string) string {
	if i := strings.LastIndex(key, "-"); i >= 0 {
		return key[i+1:]
	}
	return key
}
