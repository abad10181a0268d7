package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is a minimal reference record; credentials and signup live with the
// external auth collaborator.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
	Status   string `json:"status"`
}

// Actor is the authenticated identity a request acts as. The outer gateway
// enforces authorization; the engine re-checks ownership and role on every
// operation that receives an actor.
type Actor struct {
	UserID int64
	Role   Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanAccess reports whether the actor may read or mutate the given rental.
func (a Actor) CanAccess(r *Rental) bool {
	return a.IsAdmin() || a.UserID == r.UserID
}
