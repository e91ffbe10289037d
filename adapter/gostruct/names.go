package gostruct

import (
	"strings"

	"github.com/go-openapi/inflect"
)

var acronyms = map[string]bool{
	"API":  true,
	"DB":   true,
	"HTML": true,
	"HTTP": true,
	"ID":   true,
	"IP":   true,
	"JSON": true,
	"SQL":  true,
	"URL":  true,
	"UUID": true,
	"XML":  true,
}

// Pascal converts a field or type name to an exported Go identifier.
// Known acronyms are upper-cased, so "user_id" becomes "UserID".
func Pascal(s string) string {
	words := strings.FieldsFunc(inflect.Underscore(s), func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, w := range words {
		if u := strings.ToUpper(w); acronyms[u] {
			b.WriteString(u)
			continue
		}
		b.WriteString(inflect.Capitalize(w))
	}
	return b.String()
}

// receiver returns the method receiver name of a type.
func receiver(typ string) string {
	return "_" + strings.ToLower(typ[:1])
}
