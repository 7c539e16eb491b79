package visitor

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shms/core"
)

type Visitor struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	VisitorFor string     `json:"visitor_for"`
	IDProof    string     `json:"id_proof"`
	Phone      string     `json:"phone"`
	InTime     time.Time  `json:"in_time"`
	OutTime    *time.Time `json:"out_time"`
}

type NewVisitor struct {
	Name       string     `json:"name" validate:"required"`
	VisitorFor string     `json:"visitor_for"`
	IDProof    string     `json:"id_proof"`
	Phone      string     `json:"phone"`
	InTime     *time.Time `json:"in_time"`
	OutTime    *time.Time `json:"out_time"`
}

func (nv *NewVisitor) Validate(validate *validator.Validate) error {
	nv.Name = core.CleanString(nv.Name)
	nv.VisitorFor = core.CleanString(nv.VisitorFor)
	nv.IDProof = core.CleanString(nv.IDProof)
	nv.Phone = core.CleanString(nv.Phone)
	if err := validate.Struct(nv); err != nil {
		return err
	}
	if nv.InTime != nil && nv.OutTime != nil && nv.OutTime.Before(*nv.InTime) {
		return core.NewValidationError(nil, core.FieldError{Field: "out_time", Error: "out_time must not be before in_time"})
	}
	return nil
}

type (
	Repository interface {
		CreateVisitor(ctx context.Context, v Visitor) (Visitor, error)
		// QueryAllVisitors returns visitors by in_time, newest first.
		QueryAllVisitors(ctx context.Context) ([]Visitor, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Register(ctx context.Context, nv NewVisitor) (Visitor, error) {
	v := Visitor{
		Name:       nv.Name,
		VisitorFor: nv.VisitorFor,
		IDProof:    nv.IDProof,
		Phone:      nv.Phone,
		InTime:     time.Now().UTC(),
	}
	if nv.InTime != nil {
		v.InTime = nv.InTime.UTC()
	}
	if nv.OutTime != nil {
		out := nv.OutTime.UTC()
		v.OutTime = &out
	}
	return svc.repo.CreateVisitor(ctx, v)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Visitor, error) {
	return svc.repo.QueryAllVisitors(ctx)
}
