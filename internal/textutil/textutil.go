package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and removes all whitespace so that two
// titles differing only in spacing compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// CollapseWhitespace trims a string and folds inner whitespace runs into a
// single space.
func CollapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// FixCode cuts a portal code at the first whitespace, "ISMS.1.M1 (C)" -> "ISMS.1.M1".
func FixCode(code string) string {
	code = strings.TrimSpace(code)
	if i := strings.IndexAny(code, " \t\n"); i >= 0 {
		return code[:i]
	}
	return code
}

// CutAtTab returns everything before the first tab.
func CutAtTab(s string) string {
	before, _, _ := strings.Cut(s, "\t")
	return before
}

// AddColonAfterCode turns "ISMS.1 Title" into "ISMS.1: Title". A string
// without whitespace is returned as is.
func AddColonAfterCode(title string) string {
	code, rest, found := strings.Cut(title, " ")
	if !found {
		return title
	}
	return code + ": " + strings.TrimSpace(rest)
}

var (
	responsibilityRegex = regexp.MustCompile(`\[[^\]]+\]`)
	securityCodeRegex   = regexp.MustCompile(`\((?:[CIA]+)(?:[-IA)]+)*$`)
)

// FixTitle removes the responsibility annotation ("[Juhtkond]") and the
// trailing security code ("(C-I-A)") from a measure or module title and
// makes sure it is prefixed with "<code>: ".
func FixTitle(title, code string, securityCodes []string) string {
	title = strings.TrimSpace(responsibilityRegex.ReplaceAllString(title, ""))

	joined := strings.ToLower(strings.Join(securityCodes, "-"))
	if securityCodeRegex.MatchString(title) && strings.Contains(strings.ToLower(title), joined) {
		title = strings.TrimSpace(securityCodeRegex.ReplaceAllString(title, ""))
	}
	title = CollapseWhitespace(title)

	if code != "" && strings.HasPrefix(title, code+": ") {
		return title
	}
	return AddColonAfterCode(title)
}

var measureGroups = map[string]string{
	"3.2": "Põhimeede",
	"3.3": "Standardmeede",
	"3.4": "Kõrgmeede",
}

// GroupName maps a measure group code to its name, "3.2" -> "Põhimeede".
// Unknown codes map to "".
func GroupName(code string) string {
	return measureGroups[code]
}

var (
	ModuleCodePattern  = regexp.MustCompile(`^(?:[A-Z]{3,})(?:\.[0-9E]{1,2}){1,}$`)
	MeasureCodePattern = regexp.MustCompile(`^(?:[A-Z]{3,})(?:\.[0-9E]{1,2}){1,}\.[ME]{1,2}(?:[0-9]){1,}$`)
	ModuleTitlePattern = regexp.MustCompile(`^(?:[A-Z]{3,})(?:\.[0-9E]{1,2}){1,}: .+$`)
)
