package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sakshinde14/finalsp/config"
	"github.com/sakshinde14/finalsp/internal/dto"
	"github.com/sakshinde14/finalsp/internal/model"
	"github.com/sakshinde14/finalsp/internal/repository"
	"github.com/sakshinde14/finalsp/pkg/session"
)

// ── 内存仓储 Mock ──
// 以 map 模拟集合语义，供服务层测试使用；不做并发安全。

type mockStudentRepo struct {
	students map[primitive.ObjectID]*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[primitive.ObjectID]*model.Student)}
}

func (r *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	student.ID = primitive.NewObjectID()
	cp := *student
	r.students[student.ID] = &cp
	return nil
}

func (r *mockStudentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *mockStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	for _, s := range r.students {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *mockStudentRepo) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	s, ok := r.students[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.PasswordHash = passwordHash
	return nil
}

func (r *mockStudentRepo) UpdateEmail(_ context.Context, id primitive.ObjectID, email string) error {
	s, ok := r.students[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Email = email
	return nil
}

type mockAdminRepo struct {
	admins map[primitive.ObjectID]*model.Admin
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[primitive.ObjectID]*model.Admin)}
}

func (r *mockAdminRepo) Create(_ context.Context, admin *model.Admin) error {
	admin.ID = primitive.NewObjectID()
	cp := *admin
	r.admins[admin.ID] = &cp
	return nil
}

func (r *mockAdminRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Admin, error) {
	a, ok := r.admins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *mockAdminRepo) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	for _, a := range r.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *mockAdminRepo) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	a, ok := r.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *mockAdminRepo) UpdateUsername(_ context.Context, id primitive.ObjectID, username string) error {
	a, ok := r.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Username = username
	return nil
}

type mockCourseRepo struct {
	courses     map[string]*model.Course
	searchCalls int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (r *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	out := make([]model.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (r *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	c, ok := r.courses[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	cp := *course
	r.courses[course.Code] = &cp
	return nil
}

func (r *mockCourseRepo) Replace(_ context.Context, code string, course *model.Course) error {
	if _, ok := r.courses[code]; !ok {
		return repository.ErrNotFound
	}
	cp := *course
	r.courses[code] = &cp
	return nil
}

func (r *mockCourseRepo) Delete(_ context.Context, code string) error {
	if _, ok := r.courses[code]; !ok {
		return repository.ErrNotFound
	}
	delete(r.courses, code)
	return nil
}

// SearchSubjects 复刻聚合管道语义：展开三层嵌套后对科目名做
// 大小写不敏感子串匹配
func (r *mockCourseRepo) SearchSubjects(_ context.Context, term string) ([]dto.SubjectSearchResult, error) {
	r.searchCalls++
	lowered := strings.ToLower(term)

	var results []dto.SubjectSearchResult
	for _, c := range r.courses {
		for _, y := range c.Years {
			for _, sem := range y.Semesters {
				for _, sub := range sem.Subjects {
					if strings.Contains(strings.ToLower(sub.Name), lowered) {
						results = append(results, dto.SubjectSearchResult{
							SubjectName: sub.Name,
							CourseName:  c.Title,
							CourseCode:  c.Code,
							Year:        y.Year,
							Semester:    sem.Semester,
						})
					}
				}
			}
		}
	}
	return results, nil
}

type mockMaterialRepo struct {
	materials  map[primitive.ObjectID]*model.StudyMaterial
	failInsert error
}

func newMockMaterialRepo() *mockMaterialRepo {
	return &mockMaterialRepo{materials: make(map[primitive.ObjectID]*model.StudyMaterial)}
}

func (r *mockMaterialRepo) Insert(_ context.Context, m *model.StudyMaterial) error {
	if r.failInsert != nil {
		return r.failInsert
	}
	m.ID = primitive.NewObjectID()
	cp := *m
	r.materials[m.ID] = &cp
	return nil
}

func (r *mockMaterialRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.StudyMaterial, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *mockMaterialRepo) List(_ context.Context, filter model.MaterialFilter) ([]model.StudyMaterial, error) {
	var out []model.StudyMaterial
	for _, m := range r.materials {
		if filter.CourseCode != "" && m.CourseCode != filter.CourseCode {
			continue
		}
		if filter.Year != nil && m.Year != *filter.Year {
			continue
		}
		if filter.Semester != nil && m.Semester != *filter.Semester {
			continue
		}
		if filter.Subject != "" && m.Subject != filter.Subject {
			continue
		}
		if filter.MaterialFormat != "" && m.MaterialFormat != filter.MaterialFormat {
			continue
		}
		if filter.MaterialCategory != "" && m.MaterialCategory != filter.MaterialCategory {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *mockMaterialRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (int64, int64, error) {
	m, ok := r.materials[id]
	if !ok {
		return 0, 0, nil
	}

	var modified int64
	set := func(dst *string, v interface{}) {
		s := v.(string)
		if *dst != s {
			*dst = s
			modified = 1
		}
	}
	setInt := func(dst *int, v interface{}) {
		n := v.(int)
		if *dst != n {
			*dst = n
			modified = 1
		}
	}

	for k, v := range fields {
		switch k {
		case "title":
			set(&m.Title, v)
		case "materialCategory":
			set(&m.MaterialCategory, v)
		case "materialFormat":
			set(&m.MaterialFormat, v)
		case "contentUrl":
			set(&m.ContentURL, v)
		case "courseCode":
			set(&m.CourseCode, v)
		case "subject":
			set(&m.Subject, v)
		case "year":
			setInt(&m.Year, v)
		case "semester":
			setInt(&m.Semester, v)
		}
	}
	return 1, modified, nil
}

func (r *mockMaterialRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.materials[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.materials, id)
	return nil
}

func (r *mockMaterialRepo) ListByCourse(ctx context.Context, courseCode string) ([]model.StudyMaterial, error) {
	return r.List(ctx, model.MaterialFilter{CourseCode: courseCode})
}

func (r *mockMaterialRepo) DeleteByCourse(_ context.Context, courseCode string) (int64, error) {
	var deleted int64
	for id, m := range r.materials {
		if m.CourseCode == courseCode {
			delete(r.materials, id)
			deleted++
		}
	}
	return deleted, nil
}

// ── 内存文件存储 Mock ──

type mockBlobStore struct {
	blobs   map[string][]byte // "<category>/<storedName>" → 内容
	nextID  int
	failSav error
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{blobs: make(map[string][]byte)}
}

func (s *mockBlobStore) Save(r io.Reader, category, originalName string) (string, string, error) {
	if s.failSav != nil {
		return "", "", s.failSav
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}
	s.nextID++
	storedName := fmt.Sprintf("%d_%s", s.nextID, originalName)
	s.blobs[category+"/"+storedName] = data
	return storedName, "/static/uploads/" + category + "/" + storedName, nil
}

func (s *mockBlobStore) Delete(category, storedName string) error {
	key := category + "/" + storedName
	if _, ok := s.blobs[key]; !ok {
		return fmt.Errorf("文件不存在: %s", key)
	}
	delete(s.blobs, key)
	return nil
}

func (s *mockBlobStore) Open(category, storedName string) (io.ReadCloser, error) {
	data, ok := s.blobs[category+"/"+storedName]
	if !ok {
		return nil, fmt.Errorf("文件不存在")
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (s *mockBlobStore) has(category, storedName string) bool {
	_, ok := s.blobs[category+"/"+storedName]
	return ok
}

// ── 测试夹具 ──

type testEnv struct {
	repo     *repository.Repository
	students *mockStudentRepo
	admins   *mockAdminRepo
	courses  *mockCourseRepo
	mats     *mockMaterialRepo
	store    *mockBlobStore
	sessions *session.Store
	cfg      *config.Config
	svc      *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		students: newMockStudentRepo(),
		admins:   newMockAdminRepo(),
		courses:  newMockCourseRepo(),
		mats:     newMockMaterialRepo(),
		store:    newMockBlobStore(),
		sessions: session.NewStore(time.Hour),
		cfg: &config.Config{
			Auth: config.AuthConfig{
				SessionTTL:        time.Hour,
				BootstrapUsername: "superadmin",
				BootstrapPassword: "bootstrap-secret",
			},
		},
	}
	env.repo = &repository.Repository{
		Student:  env.students,
		Admin:    env.admins,
		Course:   env.courses,
		Material: env.mats,
	}
	env.svc = NewService(env.cfg, env.repo, env.sessions, env.store, zap.NewNop())
	return env
}
