package parser

import (
	"regexp"
	"strings"
)

// beClassPattern matches BE_CLASS(Name) or BE_CLASS(Name, FACTORY_BASE)
// (§6 "Recognized source markers"). It is applied only to the exact
// byte range of a class body (recovered from the cursor's AST extent),
// never to a whole file — §9 warns explicitly against regex-over-the-
// whole-file for macro recognition, since the macro is invisible to
// the AST after preprocessing and a whole-file scan could match a
// BE_CLASS belonging to an unrelated, textually nested class.
var beClassPattern = regexp.MustCompile(`BE_CLASS\s*\(\s*(\w+)\s*(?:,\s*(\w+)\s*)?\)`)

// findBEClass scans body (the exact byte range of one class's
// definition) for a BE_CLASS registration whose first argument equals
// className. It returns whether the macro was found and whether its
// second argument was FACTORY_BASE (case-insensitive per §4.C).
func findBEClass(body, className string) (found, isFactoryBase bool) {
	for _, m := range beClassPattern.FindAllStringSubmatch(body, -1) {
		if m[1] != className {
			continue
		}
		found = true
		if strings.EqualFold(m[2], "FACTORY_BASE") {
			isFactoryBase = true
		}
		return found, isFactoryBase
	}
	return false, false
}

// hasTextualMarker reports whether marker appears on the 1-based
// source line or the line immediately before it, per §4.C's field and
// method recognition rules ("on the field's line or the preceding
// line" / "on the declaration's line or the preceding line").
func hasTextualMarker(lines []string, line int, marker string) bool {
	idx := line - 1
	if idx < 0 || idx >= len(lines) {
		return false
	}
	if strings.Contains(lines[idx], marker) {
		return true
	}
	if idx > 0 && strings.Contains(lines[idx-1], marker) {
		return true
	}
	return false
}

// hasOverrideToken reports whether "override" appears among a
// declaration's tokens, the fallback §4.C names for recovering
// is_override when the AST surface itself does not expose it
// directly.
func hasOverrideToken(tokens []string) bool {
	for _, tok := range tokens {
		if tok == "override" {
			return true
		}
	}
	return false
}

// stripQualifier strips a leading "::"-qualified prefix from a base
// class spelling, e.g. "BECore::ISink" -> "ISink" (§4.C "Direct
// parent").
func stripQualifier(spelling string) string {
	if idx := strings.LastIndex(spelling, "::"); idx >= 0 {
		return spelling[idx+2:]
	}
	return spelling
}
