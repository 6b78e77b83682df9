// Package registry содержит учёт учеников и преподавателей школы.
package registry

import (
	"context"
	"log/slog"

	"github.com/edulingo/tutorcrm/internal/models"
)

// Repository описывает методы для работы с учениками и преподавателями.
type Repository interface {
	CreateStudent(ctx context.Context, student models.Student) (int, error)
	ReadStudent(ctx context.Context, id int) (*models.Student, error)
	ListStudents(ctx context.Context, limit, offset int) ([]*models.Student, error)
	CreateTeacher(ctx context.Context, teacher models.Teacher) (int, error)
	ListTeachers(ctx context.Context) ([]*models.Teacher, error)
}

// RegistryService реализует операции реестра учеников и преподавателей.
type RegistryService struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр RegistryService.
func New(repo Repository, log *slog.Logger) *RegistryService {
	return &RegistryService{repo: repo, log: log}
}

// CreateStudent добавляет ученика и возвращает его ID.
func (s *RegistryService) CreateStudent(ctx context.Context, req models.DummyStudent) (int, error) {
	student := models.Student{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
	}
	id, err := s.repo.CreateStudent(ctx, student)
	if err != nil {
		return 0, err
	}
	s.log.Info("created student", slog.Int("id", id))
	return id, nil
}

// ReadStudent возвращает ученика по ID.
func (s *RegistryService) ReadStudent(ctx context.Context, id int) (*models.Student, error) {
	return s.repo.ReadStudent(ctx, id)
}

// ListStudents возвращает список учеников с пагинацией.
func (s *RegistryService) ListStudents(ctx context.Context, limit, offset int) ([]*models.Student, error) {
	return s.repo.ListStudents(ctx, limit, offset)
}

// CreateTeacher добавляет преподавателя и возвращает его ID.
func (s *RegistryService) CreateTeacher(ctx context.Context, req models.DummyTeacher) (int, error) {
	teacher := models.Teacher{
		FullName: req.FullName,
		Email:    req.Email,
	}
	id, err := s.repo.CreateTeacher(ctx, teacher)
	if err != nil {
		return 0, err
	}
	s.log.Info("created teacher", slog.Int("id", id))
	return id, nil
}

// ListTeachers возвращает всех преподавателей.
func (s *RegistryService) ListTeachers(ctx context.Context) ([]*models.Teacher, error) {
	return s.repo.ListTeachers(ctx)
}
