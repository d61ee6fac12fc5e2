package domain

import "strings"

// ResolveRole decides an account's role from the administrator whitelist.
// The result is stored on the account at creation time; later whitelist edits
// do not affect existing accounts.
func ResolveRole(whitelist []string, email string) Role {
	normalized := strings.ToLower(email)
	for _, admin := range whitelist {
		if strings.ToLower(strings.TrimSpace(admin)) == normalized {
			return RoleAdmin
		}
	}
	return RoleStudent
}
