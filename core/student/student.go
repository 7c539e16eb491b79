package student

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
)

var (
	ErrNotFound    = core.NewNotFoundError("student not found")
	ErrEmailExists = core.NewConflictError("a student with this email already exists")

	errUnknownStudentID = core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "no student has this id"})
)

type Student struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Room  string `json:"room"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type NewStudent struct {
	Name  string `json:"name" validate:"required"`
	Room  string `json:"room"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Room = core.CleanString(ns.Room)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	return validate.Struct(ns)
}

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		// QueryAllStudents returns students newest first.
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id int64) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		// EnsureStudentByEmail returns the student with s.Email, inserting `s` if there is none.
		// Concurrent calls for the same email yield the same record.
		EnsureStudentByEmail(ctx context.Context, s Student) (Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	return svc.repo.CreateStudent(ctx, Student{
		Name:  ns.Name,
		Room:  ns.Room,
		Email: ns.Email,
		Phone: ns.Phone,
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

// EnsureByEmail returns the student registered with `email`, creating a placeholder
// named `name` (or the local part of the email) if none exists yet.
func (svc *Service) EnsureByEmail(ctx context.Context, email, name string) (Student, error) {
	email = core.CleanString(email, true /* lower */)
	if !core.IsEmailLike(email) {
		return Student{}, core.NewValidationError(nil, core.FieldError{Field: "student", Error: "student must be an email"})
	}
	if name = core.CleanString(name); name == "" {
		name = core.EmailLocalPart(email)
	}
	s, err := svc.repo.EnsureStudentByEmail(ctx, Student{Name: name, Email: email})
	if err != nil {
		return Student{}, errors.Wrap(err, "ensuring student by email")
	}
	return s, nil
}

// ResolveID links a submission to a student: an explicit id wins and must exist, then an email
// reference is upserted. Any other reference leaves the submission unlinked (nil).
func (svc *Service) ResolveID(ctx context.Context, ref string, id *int64) (*int64, error) {
	if id != nil && *id > 0 {
		s, err := svc.GetByID(ctx, *id)
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				return nil, errUnknownStudentID
			}
			return nil, errors.Wrap(err, "getting student by id")
		}
		return &s.ID, nil
	}
	if !core.IsEmailLike(ref) {
		return nil, nil
	}
	s, err := svc.EnsureByEmail(ctx, ref, "")
	if err != nil {
		return nil, err
	}
	return &s.ID, nil
}
