package constants

const (
	// ContextKeyActor is the gin context key holding the authenticated user.
	ContextKeyActor = "actor"

	MinPasswordLength = 6

	// Default superuser created at startup when absent.
	DefaultSuperuserName     = "Admin"
	DefaultSuperuserEmail    = "admin@example.com"
	DefaultSuperuserPassword = "admin123"
)
