package constants

// Context and header keys used by the HTTP layer.
const (
	ContextKeyUser      = "user"
	HeaderAuthorization = "Authorization"

	ResponseError = "error"
)

// Profile identifiers carried in session tokens. Admin unlocks the raw
// analytics endpoint; everything else is a regular tenant user.
const (
	ProfileAdmin    = "admin"
	ProfileStandard = "standard"
)

// IsAdminProfile reports whether the profile may run raw analytics SQL.
func IsAdminProfile(profileID string) bool {
	return profileID == ProfileAdmin
}
