// Package reflecttype implements the primitive-type classification the
// renderer needs for FieldInfo.IsPrimitive (§4.F, Glossary
// "Primitive type (for reflection)").
package reflecttype

import "strings"

// primitiveNames is the closed set of scalar/string spellings that
// count as primitive once const/volatile/pointer/reference decoration
// is stripped.
var primitiveNames = map[string]bool{
	"bool": true,

	"int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,

	"signed char": true, "unsigned char": true,
	"short": true, "unsigned short": true,
	"int": true, "unsigned int": true, "unsigned": true,
	"long": true, "unsigned long": true,
	"long long": true, "unsigned long long": true,

	"float": true, "double": true,

	"char": true, "wchar_t": true, "char8_t": true, "char16_t": true, "char32_t": true,

	// The project's canonical string type.
	"std::string": true,
}

// primitivePrefixes covers template-parameterized string spellings
// (e.g. std::basic_string<char, ...>) that normalize to the same
// concept as std::string but vary by instantiation.
var primitivePrefixes = []string{
	"std::basic_string<",
}

// IsPrimitive reports whether a field's verbatim type spelling names a
// primitive scalar or canonical string type, per the Glossary.
func IsPrimitive(spelling string) bool {
	s := normalize(spelling)

	if primitiveNames[s] {
		return true
	}
	for _, prefix := range primitivePrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// normalize strips const/volatile qualifiers, trailing reference and
// pointer decoration, and surrounding whitespace, per §4.F.
func normalize(spelling string) string {
	s := strings.TrimSpace(spelling)

	for {
		trimmedAny := false

		for strings.HasSuffix(s, "&") || strings.HasSuffix(s, "*") {
			s = strings.TrimSpace(s[:len(s)-1])
			trimmedAny = true
		}

		var trimmedConst, trimmedVolatile bool
		s, trimmedConst = trimWord(s, "const")
		s, trimmedVolatile = trimWord(s, "volatile")

		if !trimmedAny && !trimmedConst && !trimmedVolatile {
			break
		}
	}

	return s
}

// trimWord removes a leading or trailing qualifier keyword (with a
// required word boundary) and returns the remainder, trimmed.
func trimWord(s, word string) (string, bool) {
	switch {
	case strings.HasPrefix(s, word+" "):
		return strings.TrimSpace(s[len(word)+1:]), true
	case strings.HasSuffix(s, " "+word):
		return strings.TrimSpace(s[:len(s)-len(word)-1]), true
	case s == word:
		return "", true
	default:
		return s, false
	}
}
