package auth

import "strings"

const bearerScheme = "bearer"

// BearerToken extracts the credential from an Authorization header value of
// the form "Bearer <token>". The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
