package user

type User struct {
	ID        int    `json:"userId"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FullName  string `json:"fullName"`
	Phone     string `json:"phone,omitempty"`
	UserType  string `json:"userType"`
	CreatedAt string `json:"createAt,omitempty"`
	UpdatedAt string `json:"updateAt,omitempty"`
}

const (
	TypeCustomer = "customer"
	TypeProvider = "provider"
)

// Session is what the identity provider exposes for the signed-in user.
type Session struct {
	User      User   `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

func sanitizeUser(user User) User {
	user.Password = ""
	return user
}
