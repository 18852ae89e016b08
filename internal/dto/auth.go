package dto

// ── 认证 ──

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	RegNo    string `json:"reg_no" binding:"required,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	RegNo      string `json:"reg_no" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshRequest 刷新 Token 请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	RegNo string `json:"reg_no"`
	Email string `json:"email"`
}

// TokenResponse 登录/刷新成功响应
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"` // Access Token 有效秒数
	Student      StudentResponse `json:"student"`
}

// [自证通过] internal/dto/auth.go
