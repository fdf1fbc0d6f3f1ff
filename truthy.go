package sheetjson

import "strings"

// boolToken matches strict boolean text: 1/true and 0/false.
func boolToken(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	}
	return false, false
}

// truthyToken matches the built-in English vocabulary.
func truthyToken(s string) (bool, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "y", "yes", "true", "t", "ok", "okay", "1":
		return true, true
	case "n", "no", "false", "f", "not", "none", "0":
		return false, true
	}
	return false, false
}

// customTruthy matches s against a configured label pair, ignoring case and
// surrounding whitespace.
func customTruthy(s, trueLabel, falseLabel string) (bool, bool) {
	key := strings.TrimSpace(s)
	switch {
	case strings.EqualFold(key, strings.TrimSpace(trueLabel)):
		return true, true
	case strings.EqualFold(key, strings.TrimSpace(falseLabel)):
		return false, true
	}
	return false, false
}

// isTruthyWord reports whether s is a yes/no style token that is not a strict boolean.
func isTruthyWord(s string) bool {
	if _, ok := boolToken(s); ok {
		return false
	}
	_, ok := truthyToken(s)
	return ok
}
