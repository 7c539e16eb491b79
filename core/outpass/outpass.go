package outpass

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/student"
)

var (
	ErrNotFound      = core.NewNotFoundError("outpass not found")
	ErrStatusChanged = core.NewConflictError("outpass status changed, reload and try again")
)

type Outpass struct {
	ID        int64  `json:"id"`
	StudentID *int64 `json:"student_id"`
	// Student is the email of the linked student, when known.
	Student   string    `json:"student,omitempty"`
	FromDate  string    `json:"from_date,omitempty"` // YYYY-MM-DD
	ToDate    string    `json:"to_date,omitempty"`   // YYYY-MM-DD
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type NewOutpass struct {
	Student   string `json:"student"`
	StudentID *int64 `json:"student_id"`
	FromDate  string `json:"from_date" validate:"omitempty,isodate"`
	ToDate    string `json:"to_date" validate:"omitempty,isodate"`
	Reason    string `json:"reason" validate:"required"`
	Status    string `json:"status"`
}

func (no *NewOutpass) Validate(validate *validator.Validate) error {
	no.Student = core.CleanString(no.Student, true /* lower */)
	no.FromDate = core.CleanString(no.FromDate)
	no.ToDate = core.CleanString(no.ToDate)
	no.Reason = core.CleanString(no.Reason)
	no.Status = core.CleanString(no.Status, true /* lower */)
	if err := validate.Struct(no); err != nil {
		return err
	}
	if no.Status != "" && !IsValidStatus(no.Status) {
		return errInvalidStatus
	}
	if no.FromDate != "" && no.ToDate != "" && no.ToDate < no.FromDate {
		return core.NewValidationError(nil, core.FieldError{Field: "to_date", Error: "to_date must not be before from_date"})
	}
	return nil
}

// UpdateOutpass defines what information may be provided to modify an existing Outpass.
type UpdateOutpass struct {
	FromDate *string `json:"from_date" validate:"omitempty,isodate"`
	ToDate   *string `json:"to_date" validate:"omitempty,isodate"`
	Reason   *string `json:"reason"`
	Status   *string `json:"status"`

	// FromStatus, when set, makes the update apply only while the outpass is still in that
	// status. Repositories fail with ErrStatusChanged otherwise.
	FromStatus string `json:"-"`
}

func (uo *UpdateOutpass) Validate(validate *validator.Validate) error {
	core.CleanStringPtr(uo.FromDate)
	core.CleanStringPtr(uo.ToDate)
	core.CleanStringPtr(uo.Reason)
	core.CleanStringPtr(uo.Status, true /* lower */)
	if err := validate.Struct(uo); err != nil {
		return err
	}
	if uo.Status != nil && !IsValidStatus(*uo.Status) {
		return errInvalidStatus
	}
	return nil
}

type (
	Repository interface {
		CreateOutpass(ctx context.Context, o Outpass) (Outpass, error)
		// QueryAllOutpasses returns outpasses newest first.
		QueryAllOutpasses(ctx context.Context) ([]Outpass, error)
		GetOutpassByID(ctx context.Context, id int64) (Outpass, error)
		UpdateOutpass(ctx context.Context, id int64, uo UpdateOutpass) (Outpass, error)
	}

	Service struct {
		repo     Repository
		students *student.Service
		logger   core.Logger
		strict   bool
	}
)

func NewService(repo Repository, students *student.Service, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		repo:     repo,
		students: students,
		logger:   logger,
		strict:   conf.Outpass.StrictTransitions,
	}
}

func (svc *Service) Request(ctx context.Context, no NewOutpass) (Outpass, error) {
	sid, err := svc.students.ResolveID(ctx, no.Student, no.StudentID)
	if err != nil {
		return Outpass{}, errors.Wrap(err, "resolving student")
	}
	o := Outpass{
		StudentID: sid,
		FromDate:  no.FromDate,
		ToDate:    no.ToDate,
		Reason:    no.Reason,
		Status:    no.Status,
		CreatedAt: time.Now().UTC(),
	}
	if core.IsEmailLike(no.Student) {
		o.Student = no.Student
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	return svc.repo.CreateOutpass(ctx, o)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Outpass, error) {
	return svc.repo.QueryAllOutpasses(ctx)
}

// Update applies `uo` to the outpass. Status changes that skip the
// pending -> approved -> checked out -> returned order are rejected in strict mode
// and only logged otherwise. In strict mode the write is conditioned on the status that was checked.
func (svc *Service) Update(ctx context.Context, id int64, uo UpdateOutpass) (Outpass, error) {
	if uo.Status != nil {
		cur, err := svc.repo.GetOutpassByID(ctx, id)
		if err != nil {
			return Outpass{}, err
		}
		if !CanTransition(cur.Status, *uo.Status) {
			msg := fmt.Sprintf("outpass %d: status %q cannot follow %q", id, *uo.Status, cur.Status)
			if svc.strict {
				return Outpass{}, core.NewValidationError(nil, core.FieldError{Field: "status", Error: msg})
			}
			svc.logger.Warn(msg)
		}
		if svc.strict {
			uo.FromStatus = cur.Status
		}
	}
	return svc.repo.UpdateOutpass(ctx, id, uo)
}
