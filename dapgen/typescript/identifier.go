package typescript

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// TypeScript reserved words. These may appear as property names but not as
// the name of a namespace or declaration.
var reservedWords = map[string]bool{
	"break":      true,
	"case":       true,
	"catch":      true,
	"class":      true,
	"const":      true,
	"continue":   true,
	"debugger":   true,
	"default":    true,
	"delete":     true,
	"do":         true,
	"else":       true,
	"enum":       true,
	"export":     true,
	"extends":    true,
	"false":      true,
	"finally":    true,
	"for":        true,
	"function":   true,
	"if":         true,
	"implements": true,
	"import":     true,
	"in":         true,
	"instanceof": true,
	"interface":  true,
	"let":        true,
	"new":        true,
	"null":       true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"return":     true,
	"static":     true,
	"super":      true,
	"switch":     true,
	"this":       true,
	"throw":      true,
	"true":       true,
	"try":        true,
	"type":       true,
	"typeof":     true,
	"var":        true,
	"void":       true,
	"while":      true,
	"with":       true,
	"yield":      true,
}

// isIdentifier reports whether name is a syntactically valid identifier.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	if unicode.IsDigit(first) {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return false
		}
	}
	return true
}

// ValidDeclarationName reports whether name can name a namespace or a
// top-level declaration.
func ValidDeclarationName(name string) bool {
	return isIdentifier(name) && !reservedWords[name]
}

// propertyName returns name as it must appear in a property signature.
// Reserved words are legal property names and stay bare.
func propertyName(name string) string {
	if isIdentifier(name) {
		return name
	}
	return strconv.Quote(name)
}
