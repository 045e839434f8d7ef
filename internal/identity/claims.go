package identity

import "strings"

// parses the authorization claims out of a metadata bag. unknown roles are
// treated as unset, missing booleans as false.
func ClaimsFromMetadata(metadata map[string]any) Claims {
	var claims Claims

	if metadata == nil {
		return claims
	}

	if role, ok := metadata["role"].(string); ok {
		claims.Role = ParseRole(role)
	}

	claims.IsApproved = truthy(metadata["is_approved"])
	claims.OnboardingComplete = truthy(metadata["onboarding_complete"])

	if name, ok := metadata["full_name"].(string); ok {
		claims.FullName = name
	}

	return claims
}

// normalizes a role string, returning "" for anything unrecognized
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleMember:
		return RoleMember
	default:
		return ""
	}
}

// claims parsed from the user's metadata
func (u *User) Claims() Claims {
	if u == nil {
		return Claims{}
	}

	return ClaimsFromMetadata(u.Metadata)
}

// display name from metadata, falling back to the email
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}

	if name := u.Claims().FullName; name != "" {
		return name
	}

	return u.Email
}

// jsonb and form payloads sometimes carry booleans as strings
func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	default:
		return false
	}
}
