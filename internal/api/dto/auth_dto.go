package dto

// TokenForm is the form-encoded body of POST /token.
type TokenForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// TokenResponse is the OAuth2-style password grant response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// StudentLoginRequest payload for student JSON login.
type StudentLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StudentLoginResponse is returned by POST /login.
type StudentLoginResponse struct {
	Message         string `json:"message"`
	AccessToken     string `json:"access_token"`
	TokenType       string `json:"token_type"`
	StudentID       string `json:"student_id"`
	CurrentStep     int    `json:"current_step"`
	IsStepCompleted bool   `json:"is_step_completed"`
}

// StudentRegisterRequest payload for self-registration.
type StudentRegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Contact   string `json:"contact"`
	Password  string `json:"password"`
}

// StudentRegisterResponse is returned by POST /student-register.
type StudentRegisterResponse struct {
	Message         string `json:"message"`
	StudentID       string `json:"student_id"`
	AccessToken     string `json:"access_token"`
	TokenType       string `json:"token_type"`
	CurrentStep     int    `json:"current_step"`
	IsStepCompleted bool   `json:"is_step_completed"`
}

// AdminLoginRequest payload for POST /admin-login.
type AdminLoginRequest struct {
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

// AdminLoginResponse is returned by POST /admin-login.
type AdminLoginResponse struct {
	AdminEmail       string `json:"admin_email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	AdminAccessToken string `json:"admin_access_token"`
	AdminID          string `json:"admin_id"`
	Role             string `json:"role"`
	TokenType        string `json:"token_type"`
	Message          string `json:"message"`
}

// CreateAdminRequest payload for POST /create_admin.
type CreateAdminRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// MessageResponse carries a human-readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}
