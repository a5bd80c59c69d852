// Package redact scrubs credentials, personal data, SQL fragments and host
// file paths from error text before it is logged.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	SQLValuesPlaceholder  = "[REDACTED_SQL_VALUES]"
	SQLWherePlaceholder   = "[REDACTED_SQL_WHERE]"
	StackTracePlaceholder = "[REDACTED_STACK_TRACE]"
	PathPlaceholder       = "[REDACTED_PATH]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules are applied in order; earlier rules see the raw text.
var rules = []rule{
	{
		// userinfo in database and redis URLs
		pattern:     regexp.MustCompile(`(?i)\b(postgres(?:ql)?|rediss?|sqlite|file)://[^@\s/]+@`),
		replacement: "${1}://" + CredentialPlaceholder + "@",
	},
	{
		// key=value DSNs
		pattern:     regexp.MustCompile(`(?i)\b(password|passwd|pwd)=\S+`),
		replacement: "${1}=" + CredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?is)\bVALUES\s*\(.*?\)`),
		replacement: "VALUES " + SQLValuesPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\bWHERE\s+[^;\n]*`),
		replacement: "WHERE " + SQLWherePlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: EmailPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`goroutine \d+ \[[^\]]*\]:[\s\S]*`),
		replacement: StackTracePlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?:/[\w.-]+){2,}`),
		replacement: PathPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
