package golang

import (
	"strings"
	"unicode"
)

// initialisms are kept upper case in Go names: book_id becomes BookID. The
// list is the one golint checks; catalogs add their own through
// SetAdditionalInitialisms.
var initialisms = func() map[string]bool {
	m := make(map[string]bool)
	for _, s := range strings.Fields(`
		API ASCII CPU CSS DNS EOF GUID HTML HTTP HTTPS ID IP JSON LHS QPS RAM
		RHS RPC SLA SMTP SQL SSH TCP TLS TTL UDP UI UID UUID URI URL UTF8 VM
		XML XMPP XSRF XSS`) {
		m[s] = true
	}
	return m
}()

// SetAdditionalInitialisms registers extra initialisms, e.g. FCM. It is not
// safe to call while names are being generated.
func SetAdditionalInitialisms(extra []string) {
	for _, s := range extra {
		initialisms[strings.ToUpper(s)] = true
	}
}

// PascalCase turns a catalog name into an exported Go name.
func PascalCase(s string) string {
	return joinWords(splitWords(s), false)
}

// CamelCase turns a catalog name into an unexported Go name.
func CamelCase(s string) string {
	return joinWords(splitWords(s), true)
}

// SnakeCase is the JSON key form: "bookId" becomes "book_id".
func SnakeCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// KebabCase is the querystring key form: "per_page" becomes "per-page".
func KebabCase(s string) string {
	return strings.ReplaceAll(SnakeCase(s), "_", "-")
}

// ToGoIdentifier is PascalCase that always yields a valid identifier.
func ToGoIdentifier(s string) string {
	name := PascalCase(s)
	switch {
	case name == "":
		return "X"
	case unicode.IsDigit(rune(name[0])):
		return "X" + name
	}
	return name
}

// EscapeKeyword appends an underscore to names that collide with a keyword.
func EscapeKeyword(s string) string {
	if isKeyword(strings.ToLower(s)) {
		return s + "_"
	}
	return s
}

func isKeyword(s string) bool {
	switch s {
	case "break", "case", "chan", "const", "continue", "default", "defer",
		"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
		"interface", "map", "package", "range", "return", "select", "struct",
		"switch", "type", "var":
		return true
	}
	return false
}

func joinWords(words []string, lowerFirst bool) string {
	var b strings.Builder
	for i, w := range words {
		upper := strings.ToUpper(w)
		switch {
		case i == 0 && lowerFirst:
			b.WriteString(strings.ToLower(w))
		case initialisms[upper]:
			b.WriteString(upper)
		default:
			b.WriteString(capitalize(w))
		}
	}
	return b.String()
}

// splitWords splits on '_', '-', ' ' and '.', and before an upper case
// letter that follows a lower case letter or a digit.
func splitWords(s string) []string {
	var (
		words []string
		start = -1
	)
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, s[start:end])
		}
		start = -1
	}

	for i, r := range s {
		switch {
		case strings.ContainsRune("_- .", r):
			flush(i)
			continue
		case unicode.IsUpper(r) && i > 0:
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				flush(i)
			}
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(s))
	return words
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
