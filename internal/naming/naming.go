// Package naming derives the case variants of a library name that every
// generated path and file refers to.
package naming

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Variants holds the case forms of one user supplied name.
type Variants struct {
	Original     string
	ClassName    string // PascalCase
	PropertyName string // camelCase
	FileName     string // kebab-case
	ConstantName string // SCREAMING_SNAKE_CASE
}

// InvalidNameError is returned when a name cannot produce any identifier.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Reason)
}

// digitPrefix is prepended when a name starts with a digit, so that every
// variant stays a valid identifier and path segment.
const digitPrefix = "lib"

// Derive computes all naming variants of name.
func Derive(name string) (Variants, error) {
	if strings.TrimSpace(name) == "" {
		return Variants{}, &InvalidNameError{Name: name, Reason: "name is empty"}
	}

	tokens := Tokens(name)
	if len(tokens) == 0 {
		return Variants{}, &InvalidNameError{Name: name, Reason: "name has no letters or digits"}
	}
	if first := rune(tokens[0][0]); unicode.IsDigit(first) {
		tokens = append([]string{digitPrefix}, tokens...)
	}

	className := toPascal(tokens)
	return Variants{
		Original:     name,
		ClassName:    className,
		PropertyName: lowerFirst(className),
		FileName:     joinMapped(tokens, "-", strings.ToLower),
		ConstantName: joinMapped(tokens, "_", strings.ToUpper),
	}, nil
}

// Tokens splits s into words. Any rune outside [A-Za-z0-9] separates words,
// and a lowercase letter followed by an uppercase one starts a new word.
func Tokens(s string) []string {
	var (
		tokens  []string
		current []rune
		prev    rune
	)
	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, string(current))
			current = current[:0]
		}
	}
	for _, r := range s {
		if !isASCIIAlnum(r) {
			flush()
			prev = 0
			continue
		}
		if len(current) > 0 && isLower(prev) && isUpper(r) {
			flush()
		}
		current = append(current, r)
		prev = r
	}
	flush()
	return tokens
}

// Plural returns the pluralised class and file names, e.g. "Category" gives
// "Categories" and "categories".
func Plural(v Variants) (className, fileName string) {
	className = inflect.Pluralize(v.ClassName)
	return className, joinMapped(Tokens(className), "-", strings.ToLower)
}

func toPascal(tokens []string) string {
	// A Caser keeps state, so each call gets its own.
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(title.String(t))
	}
	return b.String()
}

func joinMapped(tokens []string, sep string, fn func(string) string) string {
	mapped := make([]string, len(tokens))
	for i, t := range tokens {
		mapped[i] = fn(t)
	}
	return strings.Join(mapped, sep)
}

func lowerFirst(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func isASCIIAlnum(r rune) bool {
	return isLower(r) || isUpper(r) || (r >= '0' && r <= '9')
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
