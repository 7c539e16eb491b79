package complaint

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/student"
)

// Statuses
const (
	StatusPending  = "pending"
	StatusOpen     = "open"
	StatusResolved = "resolved"
	StatusClosed   = "closed"
)

var ErrNotFound = core.NewNotFoundError("complaint not found")

type Complaint struct {
	ID        int64  `json:"id"`
	StudentID *int64 `json:"student_id"`
	// Student is the email of the linked student, when known.
	Student   string    `json:"student,omitempty"`
	Category  string    `json:"category"`
	Details   string    `json:"details"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

func (c Complaint) IsPending() bool {
	return c.Status == StatusPending || c.Status == StatusOpen
}

func (c Complaint) IsResolved() bool {
	return c.Status == StatusResolved || c.Status == StatusClosed
}

type NewComplaint struct {
	Student   string `json:"student"`
	StudentID *int64 `json:"student_id"`
	Category  string `json:"category" validate:"required_without=Details"`
	Details   string `json:"details" validate:"required_without=Category"`
	Status    string `json:"status"`
}

func (nc *NewComplaint) Validate(validate *validator.Validate) error {
	nc.Student = core.CleanString(nc.Student, true /* lower */)
	nc.Category = core.CleanString(nc.Category)
	nc.Details = core.CleanString(nc.Details)
	nc.Status = core.CleanString(nc.Status, true /* lower */)
	return validate.Struct(nc)
}

// UpdateComplaint defines what information may be provided to modify an existing Complaint.
type UpdateComplaint struct {
	Category *string `json:"category"`
	Details  *string `json:"details"`
	Status   *string `json:"status" validate:"omitempty,min=1"`
}

func (uc *UpdateComplaint) Validate(validate *validator.Validate) error {
	core.CleanStringPtr(uc.Category)
	core.CleanStringPtr(uc.Details)
	core.CleanStringPtr(uc.Status, true /* lower */)
	return validate.Struct(uc)
}

type (
	Repository interface {
		CreateComplaint(ctx context.Context, c Complaint) (Complaint, error)
		// QueryAllComplaints returns complaints newest first.
		QueryAllComplaints(ctx context.Context) ([]Complaint, error)
		GetComplaintByID(ctx context.Context, id int64) (Complaint, error)
		UpdateComplaint(ctx context.Context, id int64, uc UpdateComplaint) (Complaint, error)
	}

	Service struct {
		repo     Repository
		students *student.Service
	}
)

func NewService(repo Repository, students *student.Service) *Service {
	return &Service{repo: repo, students: students}
}

func (svc *Service) Create(ctx context.Context, nc NewComplaint) (Complaint, error) {
	sid, err := svc.students.ResolveID(ctx, nc.Student, nc.StudentID)
	if err != nil {
		return Complaint{}, errors.Wrap(err, "resolving student")
	}
	c := Complaint{
		StudentID: sid,
		Category:  nc.Category,
		Details:   nc.Details,
		Status:    nc.Status,
		CreatedAt: time.Now().UTC(),
	}
	if core.IsEmailLike(nc.Student) {
		c.Student = nc.Student
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	return svc.repo.CreateComplaint(ctx, c)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Complaint, error) {
	return svc.repo.QueryAllComplaints(ctx)
}

func (svc *Service) Update(ctx context.Context, id int64, uc UpdateComplaint) (Complaint, error) {
	return svc.repo.UpdateComplaint(ctx, id, uc)
}

func (svc *Service) Resolve(ctx context.Context, id int64) (Complaint, error) {
	status := StatusResolved
	return svc.repo.UpdateComplaint(ctx, id, UpdateComplaint{Status: &status})
}
