package feedback

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/student"
)

type Feedback struct {
	ID int64 `json:"id"`
	// StudentID is nil for anonymous feedback.
	StudentID *int64    `json:"student_id"`
	Student   string    `json:"student,omitempty"`
	Mess      string    `json:"mess"`
	Rating    int       `json:"rating"`
	Comments  string    `json:"comments"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type NewFeedback struct {
	Student   string `json:"student"`
	StudentID *int64 `json:"student_id"`
	Mess      string `json:"mess"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comments  string `json:"comments"`
}

func (nf *NewFeedback) Validate(validate *validator.Validate) error {
	nf.Student = core.CleanString(nf.Student, true /* lower */)
	nf.Mess = core.CleanString(nf.Mess)
	nf.Comments = core.CleanString(nf.Comments)
	return validate.Struct(nf)
}

type (
	Repository interface {
		CreateFeedback(ctx context.Context, f Feedback) (Feedback, error)
		// QueryAllFeedbacks returns feedbacks newest first.
		QueryAllFeedbacks(ctx context.Context) ([]Feedback, error)
	}

	Service struct {
		repo     Repository
		students *student.Service
	}
)

func NewService(repo Repository, students *student.Service) *Service {
	return &Service{repo: repo, students: students}
}

func (svc *Service) Submit(ctx context.Context, nf NewFeedback) (Feedback, error) {
	sid, err := svc.students.ResolveID(ctx, nf.Student, nf.StudentID)
	if err != nil {
		return Feedback{}, errors.Wrap(err, "resolving student")
	}
	f := Feedback{
		StudentID: sid,
		Mess:      nf.Mess,
		Rating:    nf.Rating,
		Comments:  nf.Comments,
		CreatedAt: time.Now().UTC(),
	}
	if core.IsEmailLike(nf.Student) {
		f.Student = nf.Student
	}
	return svc.repo.CreateFeedback(ctx, f)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Feedback, error) {
	return svc.repo.QueryAllFeedbacks(ctx)
}
