package Models

// AuthContext is the request-scoped identity every task operation receives
type AuthContext struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"user_type"`
}

func (a AuthContext) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a AuthContext) IsManager() bool { return a.Role == RoleManager }
func (a AuthContext) IsDoer() bool    { return a.Role == RoleDoer }

// AuthContextFor builds the context for a loaded user
func AuthContextFor(u User) AuthContext {
	return AuthContext{UserID: u.ID, Username: u.Username, Name: u.Name, Role: u.UserType}
}
