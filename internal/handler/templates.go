package handler

import (
	"fmt"
	"html/template"
	"time"
)

// TemplateFuncs returns the FuncMap shared by all page templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"year": func() int {
			return time.Now().Year()
		},
		// dollars formats a cent amount as $X.YY.
		"dollars": func(cents int64) string {
			return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
		},
	}
}
