package service

import "strings"

const minCredentialLength = 10

// Credential hints shown next to the API key field.
const (
	HintMissingCredential = "Please enter an API key"
	HintShortCredential   = "API key format may be incorrect"
)

// CheckCredential returns an inline hint for the API key field, or "" when
// the key looks plausible. It never blocks a submission.
func CheckCredential(key string) string {
	if key == "" {
		return HintMissingCredential
	}
	if len(strings.TrimSpace(key)) < minCredentialLength {
		return HintShortCredential
	}
	return ""
}
