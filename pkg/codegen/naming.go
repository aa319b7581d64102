package codegen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"github.com/vektah/gqlparser/v2/ast"
)

var commonInitialisms = map[string]bool{
	"ACL": true, "API": true, "ASCII": true, "CPU": true, "CSS": true, "DNS": true,
	"EOF": true, "GUID": true, "HTML": true, "HTTP": true, "HTTPS": true, "ID": true,
	"IP": true, "JSON": true, "QPS": true, "RAM": true, "RPC": true, "SLA": true,
	"SMTP": true, "SQL": true, "SSH": true, "TCP": true, "TLS": true, "TTL": true,
	"UDP": true, "UI": true, "UID": true, "UUID": true, "URI": true, "URL": true,
	"UTF8": true, "VM": true, "XML": true, "XMPP": true, "XSRF": true, "XSS": true,
}

// goName turns a GraphQL name into an exported Go identifier:
// starScore -> StarScore, SHOW_TYPE -> ShowType, showId -> ShowID.
func goName(name string) string {
	if isUpperCase(name) {
		name = strings.ToLower(name)
	}
	camel := strcase.ToCamel(name)
	if camel == "" {
		return "X"
	}
	words := splitWords(camel)
	for i, word := range words {
		if upper := strings.ToUpper(word); commonInitialisms[upper] {
			words[i] = upper
		}
	}
	return strings.Join(words, "")
}

func isUpperCase(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// splitWords splits a camel case identifier, keeping runs of capitals together: HTTPServer -> HTTP Server.
func splitWords(s string) []string {
	runes := []rune(s)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		cur, prev := runes[i], runes[i-1]
		if !unicode.IsUpper(cur) {
			continue
		}
		nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextIsLower) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

func (g *Generator) typeName(name string) string {
	return goName(name)
}

func (g *Generator) enumValueName(def *ast.Definition, value string) string {
	return g.typeName(def.Name) + goName(value)
}

// scope tracks the identifiers declared in a package or on a type.
type scope struct {
	name  string
	names map[string]string
}

func newScope(name string) *scope {
	return &scope{
		name:  name,
		names: map[string]string{},
	}
}

func (s *scope) has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// declare registers name for origin, a description of the schema element it was generated from.
func (s *scope) declare(name, origin string) error {
	if existing, ok := s.names[name]; ok {
		return fmt.Errorf("%s: name %s generated for %s collides with %s", s.name, name, origin, existing)
	}
	s.names[name] = origin
	return nil
}

// member returns name, or name+suffix when name is already taken in s.
func (s *scope) member(name, suffix string) string {
	if s.has(name) {
		return name + suffix
	}
	return name
}
