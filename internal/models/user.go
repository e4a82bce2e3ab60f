package models

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents an account. The password is stored as-is and is never
// serialized into a response.
type User struct {
	ID        int    `json:"id" gorm:"primaryKey"`
	Email     string `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"-"`
	Role      string `json:"role"`
}
