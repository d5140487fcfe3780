package accept

import (
	"fmt"
	"sort"
	"strings"
)

// funcs a predicate may call.
var allowedFuncs = map[string]struct{}{
	"abs":   {},
	"min":   {},
	"max":   {},
	"floor": {},
	"ceil":  {},
}

// keywords of the expression language that read like identifiers.
var allowedKeywords = map[string]struct{}{
	"and":   {},
	"or":    {},
	"not":   {},
	"true":  {},
	"false": {},
}

// UnknownNamesError reports identifiers that are neither summary variables
// nor allowed helpers.
type UnknownNamesError struct {
	Names []string
}

func (e *UnknownNamesError) Error() string {
	return fmt.Sprintf("unknown names [%s]", strings.Join(e.Names, ", "))
}

// Validate checks a predicate before compilation. Predicates are flat
// boolean expressions over the given variables: no dot access, no braces,
// and only the whitelisted helper functions.
func Validate(cond string, vars []string) error {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return fmt.Errorf("empty predicate")
	}

	illegalChars := []rune{'{', '}', '[', ']', ';', ':', '?', '@', '#', '$', '\\'}
	for _, ch := range illegalChars {
		if strings.ContainsRune(cond, ch) {
			return fmt.Errorf("illegal character %q", ch)
		}
	}

	if strings.Contains(cond, ".") && containsDotAccess(cond) {
		return fmt.Errorf("dot access is not allowed")
	}

	known := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		known[v] = struct{}{}
	}

	unknown := map[string]struct{}{}
	for _, ident := range identifiers(cond) {
		if _, ok := known[ident]; ok {
			continue
		}
		if _, ok := allowedFuncs[ident]; ok {
			continue
		}
		if _, ok := allowedKeywords[ident]; ok {
			continue
		}
		unknown[ident] = struct{}{}
	}
	if len(unknown) > 0 {
		names := make([]string, 0, len(unknown))
		for n := range unknown {
			names = append(names, n)
		}
		sort.Strings(names)
		return &UnknownNamesError{Names: names}
	}

	return nil
}

// containsDotAccess reports a dot adjacent to an identifier character,
// leaving numeric literals like 1.5 alone.
func containsDotAccess(cond string) bool {
	for i := 0; i < len(cond); i++ {
		if cond[i] != '.' {
			continue
		}
		before := i > 0 && isIdentByte(cond[i-1]) && !isDigit(cond[i-1])
		after := i+1 < len(cond) && isIdentByte(cond[i+1]) && !isDigit(cond[i+1])
		if before || after {
			return true
		}
	}
	return false
}

// identifiers scans cond for identifier tokens, skipping the exponent part
// of numeric literals.
func identifiers(cond string) []string {
	var out []string
	i := 0
	for i < len(cond) {
		b := cond[i]
		if isDigit(b) {
			// consume the whole numeric literal, exponent included
			for i < len(cond) && (isIdentByte(cond[i]) || cond[i] == '.') {
				i++
			}
			continue
		}
		if isIdentStart(b) {
			j := i
			for j < len(cond) && isIdentByte(cond[j]) {
				j++
			}
			out = append(out, cond[i:j])
			i = j
			continue
		}
		i++
	}
	return out
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
