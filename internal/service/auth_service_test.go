package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakshinde14/finalsp/internal/dto"
	"github.com/sakshinde14/finalsp/internal/model"
)

func signupStudent(t *testing.T, env *testEnv, email string) *dto.StudentResponse {
	t.Helper()
	resp, err := env.svc.Auth.RegisterStudent(context.Background(), &dto.StudentSignupRequest{
		FullName: "张三",
		Email:    email,
		Password: "secret-1",
	})
	if err != nil {
		t.Fatalf("注册学生失败: %v", err)
	}
	return resp
}

func TestRegisterStudentThenLogin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp := signupStudent(t, env, "zhangsan@example.com")
	if resp.ID == "" {
		t.Fatal("注册响应缺少 ID")
	}
	if resp.Email != "zhangsan@example.com" {
		t.Fatalf("注册响应邮箱不符: %s", resp.Email)
	}

	login, token, err := env.svc.Auth.LoginStudent(ctx, &dto.StudentLoginRequest{
		Email:    "zhangsan@example.com",
		Password: "secret-1",
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if token == "" {
		t.Fatal("登录未返回会话 Token")
	}
	if login.Role != model.RoleStudent {
		t.Fatalf("登录角色不符: %s", login.Role)
	}
	if login.Username != "张三" {
		t.Fatalf("登录用户名不符: %s", login.Username)
	}
}

func TestRegisterStudentDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	signupStudent(t, env, "dup@example.com")

	_, err := env.svc.Auth.RegisterStudent(context.Background(), &dto.StudentSignupRequest{
		FullName: "李四",
		Email:    "dup@example.com",
		Password: "secret-2",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("期望 ErrEmailExists，实际: %v", err)
	}
}

func TestLoginStudentInvalidCredentials(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	signupStudent(t, env, "zhangsan@example.com")

	// 账号不存在与密码错误必须同为 ErrInvalidCredentials，不可区分
	if _, _, err := env.svc.Auth.LoginStudent(ctx, &dto.StudentLoginRequest{
		Email: "nobody@example.com", Password: "secret-1",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("未知邮箱期望 ErrInvalidCredentials，实际: %v", err)
	}

	if _, _, err := env.svc.Auth.LoginStudent(ctx, &dto.StudentLoginRequest{
		Email: "zhangsan@example.com", Password: "wrong-password",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("错误密码期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestSetupAdminIdempotence(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if err := env.svc.Auth.SetupAdmin(ctx); err != nil {
		t.Fatalf("引导创建管理员失败: %v", err)
	}
	if err := env.svc.Auth.SetupAdmin(ctx); !errors.Is(err, ErrAdminExists) {
		t.Fatalf("重复引导期望 ErrAdminExists，实际: %v", err)
	}

	// 引导口令可登录
	login, token, err := env.svc.Auth.LoginAdmin(ctx, &dto.AdminLoginRequest{
		Username: "superadmin",
		Password: "bootstrap-secret",
	})
	if err != nil {
		t.Fatalf("管理员登录失败: %v", err)
	}
	if token == "" || login.Role != model.RoleAdmin {
		t.Fatalf("管理员登录结果异常: token=%q role=%s", token, login.Role)
	}
}

func TestCheckAuthAndLogout(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	signupStudent(t, env, "zhangsan@example.com")

	_, token, err := env.svc.Auth.LoginStudent(ctx, &dto.StudentLoginRequest{
		Email: "zhangsan@example.com", Password: "secret-1",
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	state := env.svc.Auth.CheckAuth(token)
	if !state.IsAuthenticated || state.Role != model.RoleStudent || state.Username != "张三" {
		t.Fatalf("会话状态不符: %+v", state)
	}

	env.svc.Auth.Logout(token)
	if env.svc.Auth.CheckAuth(token).IsAuthenticated {
		t.Fatal("登出后会话仍有效")
	}

	// 重复登出与空 Token 均为空操作
	env.svc.Auth.Logout(token)
	env.svc.Auth.Logout("")
	if env.svc.Auth.CheckAuth("").IsAuthenticated {
		t.Fatal("空 Token 不应视为已认证")
	}
}

func TestChangeStudentPassword(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	resp := signupStudent(t, env, "zhangsan@example.com")

	// 当前密码错误
	err := env.svc.Auth.ChangeStudentPassword(ctx, resp.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "new-secret",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("期望 ErrInvalidCredentials，实际: %v", err)
	}

	// 新密码过短
	err = env.svc.Auth.ChangeStudentPassword(ctx, resp.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "secret-1", NewPassword: "short",
	})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("期望 ErrPasswordTooShort，实际: %v", err)
	}

	// 成功修改后旧密码失效、新密码可登录
	err = env.svc.Auth.ChangeStudentPassword(ctx, resp.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "secret-1", NewPassword: "new-secret",
	})
	if err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}

	if _, _, err := env.svc.Auth.LoginStudent(ctx, &dto.StudentLoginRequest{
		Email: "zhangsan@example.com", Password: "secret-1",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("旧密码仍可登录: %v", err)
	}
	if _, _, err := env.svc.Auth.LoginStudent(ctx, &dto.StudentLoginRequest{
		Email: "zhangsan@example.com", Password: "new-secret",
	}); err != nil {
		t.Fatalf("新密码登录失败: %v", err)
	}
}

func TestChangeStudentPasswordUnknownUser(t *testing.T) {
	env := newTestEnv()

	err := env.svc.Auth.ChangeStudentPassword(context.Background(), "not-a-hex-id", &dto.ChangePasswordRequest{
		CurrentPassword: "secret-1", NewPassword: "new-secret",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("非法 ID 期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestChangeStudentEmail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := signupStudent(t, env, "a@example.com")
	signupStudent(t, env, "b@example.com")

	// 密码确认失败
	err := env.svc.Auth.ChangeStudentEmail(ctx, a.ID, &dto.ChangeEmailRequest{
		Password: "wrong", NewEmail: "new@example.com",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("期望 ErrInvalidCredentials，实际: %v", err)
	}

	// 新邮箱被他人占用
	err = env.svc.Auth.ChangeStudentEmail(ctx, a.ID, &dto.ChangeEmailRequest{
		Password: "secret-1", NewEmail: "b@example.com",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("期望 ErrEmailExists，实际: %v", err)
	}

	// 与当前邮箱相同为空操作
	if err := env.svc.Auth.ChangeStudentEmail(ctx, a.ID, &dto.ChangeEmailRequest{
		Password: "secret-1", NewEmail: "a@example.com",
	}); err != nil {
		t.Fatalf("改为同邮箱应为空操作: %v", err)
	}

	// 成功修改后新邮箱可登录
	if err := env.svc.Auth.ChangeStudentEmail(ctx, a.ID, &dto.ChangeEmailRequest{
		Password: "secret-1", NewEmail: "new@example.com",
	}); err != nil {
		t.Fatalf("修改邮箱失败: %v", err)
	}
	if _, _, err := env.svc.Auth.LoginStudent(ctx, &dto.StudentLoginRequest{
		Email: "new@example.com", Password: "secret-1",
	}); err != nil {
		t.Fatalf("新邮箱登录失败: %v", err)
	}
}

func TestChangeAdminUsername(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if err := env.svc.Auth.SetupAdmin(ctx); err != nil {
		t.Fatalf("引导创建管理员失败: %v", err)
	}
	admin, err := env.admins.GetByUsername(ctx, "superadmin")
	if err != nil {
		t.Fatalf("查询管理员失败: %v", err)
	}
	adminID := admin.ID.Hex()

	// 占位第二个管理员制造冲突
	if err := env.admins.Create(ctx, &model.Admin{Username: "other", Role: model.RoleAdmin}); err != nil {
		t.Fatalf("创建管理员失败: %v", err)
	}

	err = env.svc.Auth.ChangeAdminUsername(ctx, adminID, &dto.ChangeUsernameRequest{
		Password: "bootstrap-secret", NewUsername: "other",
	})
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("期望 ErrUsernameExists，实际: %v", err)
	}

	if err := env.svc.Auth.ChangeAdminUsername(ctx, adminID, &dto.ChangeUsernameRequest{
		Password: "bootstrap-secret", NewUsername: "rootadmin",
	}); err != nil {
		t.Fatalf("修改用户名失败: %v", err)
	}

	if _, _, err := env.svc.Auth.LoginAdmin(ctx, &dto.AdminLoginRequest{
		Username: "rootadmin", Password: "bootstrap-secret",
	}); err != nil {
		t.Fatalf("新用户名登录失败: %v", err)
	}
}

func TestProfileByRole(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student := signupStudent(t, env, "zhangsan@example.com")
	if err := env.svc.Auth.SetupAdmin(ctx); err != nil {
		t.Fatalf("引导创建管理员失败: %v", err)
	}
	admin, err := env.admins.GetByUsername(ctx, "superadmin")
	if err != nil {
		t.Fatalf("查询管理员失败: %v", err)
	}

	sp, err := env.svc.Auth.Profile(ctx, student.ID, model.RoleStudent)
	if err != nil {
		t.Fatalf("查询学生信息失败: %v", err)
	}
	if sp.Role != model.RoleStudent || sp.FullName != "张三" || sp.Email != "zhangsan@example.com" || sp.Username != "" {
		t.Fatalf("学生信息形状不符: %+v", sp)
	}

	ap, err := env.svc.Auth.Profile(ctx, admin.ID.Hex(), model.RoleAdmin)
	if err != nil {
		t.Fatalf("查询管理员信息失败: %v", err)
	}
	if ap.Role != model.RoleAdmin || ap.Username != "superadmin" || ap.FullName != "" {
		t.Fatalf("管理员信息形状不符: %+v", ap)
	}

	if _, err := env.svc.Auth.Profile(ctx, "bad-id", model.RoleStudent); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("非法 ID 期望 ErrUserNotFound，实际: %v", err)
	}
}
