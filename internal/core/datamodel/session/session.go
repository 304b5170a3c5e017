package session

type Role string

const (
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

const StatusConnected = "connected"

const (
	StorageKeyUser  = "user"
	StorageKeyToken = "jwt"
)

// Credentials are only held for the duration of one submission.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the identity persisted under StorageKeyUser.
type Session struct {
	Type     Role   `json:"type"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Status   string `json:"status"`
}

func New(role Role, creds Credentials) Session {
	return Session{
		Type:     role,
		Email:    creds.Email,
		Password: creds.Password,
		Status:   StatusConnected,
	}
}

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleAdmin
}
