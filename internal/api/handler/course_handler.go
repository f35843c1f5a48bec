package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sakshinde14/finalsp/internal/dto"
	"github.com/sakshinde14/finalsp/internal/service"
	"github.com/sakshinde14/finalsp/pkg/response"
)

// CourseHandler 课程目录模块 HTTP 处理器
type CourseHandler struct {
	catalogSvc service.CatalogService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(catalogSvc service.CatalogService) *CourseHandler {
	return &CourseHandler{catalogSvc: catalogSvc}
}

// ListCourses 课程列表（含派生字段）
// GET /api/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	result, err := h.catalogSvc.ListCourses(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetCourse 课程完整文档
// GET /api/courses/:code
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.catalogSvc.GetCourse(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, course)
}

// GetYears 课程年级列表。
// 课程不存在 → 404；课程存在但无年级 → 200 空序列
// GET /api/courses/:code/years
func (h *CourseHandler) GetYears(c *gin.Context) {
	years, err := h.catalogSvc.GetYears(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, years)
}

// GetSemesters 年级学期列表
// GET /api/courses/:code/years/:year/semesters
func (h *CourseHandler) GetSemesters(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		response.BadRequest(c, 10001, "year 必须为整数")
		return
	}

	semesters, err := h.catalogSvc.GetSemesters(c.Request.Context(), c.Param("code"), year)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, semesters)
}

// GetSubjects 学期科目列表
// GET /api/courses/:code/years/:year/semesters/:semester/subjects
func (h *CourseHandler) GetSubjects(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		response.BadRequest(c, 10001, "year 必须为整数")
		return
	}
	semester, err := strconv.Atoi(c.Param("semester"))
	if err != nil {
		response.BadRequest(c, 10001, "semester 必须为整数")
		return
	}

	subjects, err := h.catalogSvc.GetSubjects(c.Request.Context(), c.Param("code"), year, semester)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, subjects)
}

// SearchSubjects 跨课程科目搜索（空检索词返回空序列）
// GET /api/search/subjects?q=
func (h *CourseHandler) SearchSubjects(c *gin.Context) {
	results, err := h.catalogSvc.SearchSubjects(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, results)
}

// CreateCourse 创建课程
// POST /api/admin/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CoursePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.catalogSvc.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.Created(c, course)
}

// ReplaceCourse 整体替换课程文档
// PUT /api/admin/courses/:code
func (h *CourseHandler) ReplaceCourse(c *gin.Context) {
	var req dto.CoursePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.catalogSvc.ReplaceCourse(c.Request.Context(), c.Param("code"), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, course)
}

// DeleteCourse 删除课程并级联清理其学习资料
// DELETE /api/admin/courses/:code
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.catalogSvc.DeleteCourse(c.Request.Context(), c.Param("code")); err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *CourseHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12001, "课程不存在")
	case errors.Is(err, service.ErrCourseExists):
		response.Conflict(c, 12002, "课程编码已存在")
	case errors.Is(err, service.ErrCourseCodeMismatch):
		response.BadRequest(c, 12003, "请求体中的课程编码与路径不一致")
	case errors.Is(err, service.ErrYearNotFound):
		response.NotFound(c, 12005, "年级不存在")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 12006, "学期不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/course_handler.go
