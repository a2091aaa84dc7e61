package domain

// Principal is the authenticated caller of a service operation.
type Principal struct {
	UserID  int32
	Email   string
	Role    UserRole
	IsAdmin bool
}
