package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edulingo/tutorcrm/internal/models"
)

// CreateStudent вставляет нового ученика и возвращает его ID.
func (s *Storage) CreateStudent(ctx context.Context, student models.Student) (int, error) {
	const op = "storage.CreateStudent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO students (first_name, last_name, email, phone, notes)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		student.FirstName, student.LastName, student.Email, student.Phone, student.Notes).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadStudent возвращает данные ученика по его ID.
func (s *Storage) ReadStudent(ctx context.Context, id int) (*models.Student, error) {
	const op = "storage.ReadStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, first_name, last_name, email, phone, notes, created_at
			  FROM students WHERE id = $1`
	var student models.Student
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&student.ID, &student.FirstName,
		&student.LastName, &student.Email, &student.Phone, &student.Notes, &student.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &student, nil
}

// ListStudents возвращает список учеников с пагинацией.
func (s *Storage) ListStudents(ctx context.Context, limit, offset int) ([]*models.Student, error) {
	const op = "storage.ListStudents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, first_name, last_name, email, phone, notes, created_at
			  FROM students
			  ORDER BY last_name, first_name, id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var results []*models.Student
	for rows.Next() {
		var student models.Student
		if err = rows.Scan(&student.ID, &student.FirstName, &student.LastName,
			&student.Email, &student.Phone, &student.Notes, &student.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		results = append(results, &student)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}

// CreateTeacher вставляет нового преподавателя и возвращает его ID.
func (s *Storage) CreateTeacher(ctx context.Context, teacher models.Teacher) (int, error) {
	const op = "storage.CreateTeacher"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO teachers (full_name, email)
			  VALUES ($1, $2)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query, teacher.FullName, teacher.Email).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListTeachers возвращает список всех преподавателей.
func (s *Storage) ListTeachers(ctx context.Context) ([]*models.Teacher, error) {
	const op = "storage.ListTeachers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, full_name, email FROM teachers ORDER BY full_name, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var results []*models.Teacher
	for rows.Next() {
		var teacher models.Teacher
		if err = rows.Scan(&teacher.ID, &teacher.FullName, &teacher.Email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		results = append(results, &teacher)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}
