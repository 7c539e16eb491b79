package room

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shms/core"
)

type Room struct {
	ID        int64  `json:"id"`
	Number    string `json:"number"`
	Capacity  int    `json:"capacity"`
	Occupancy int    `json:"occupancy"`
}

type NewRoom struct {
	Number    string `json:"number" validate:"required"`
	Capacity  *int   `json:"capacity" validate:"omitempty,min=1"`
	Occupancy *int   `json:"occupancy" validate:"omitempty,min=0"`
}

// Validate cleans the payload and applies the defaults (capacity 1, occupancy 0)
// before checking that occupancy does not exceed capacity.
func (nr *NewRoom) Validate(validate *validator.Validate) error {
	nr.Number = core.CleanString(nr.Number)
	if err := validate.Struct(nr); err != nil {
		return err
	}
	if nr.Capacity == nil {
		one := 1
		nr.Capacity = &one
	}
	if nr.Occupancy == nil {
		zero := 0
		nr.Occupancy = &zero
	}
	if *nr.Occupancy > *nr.Capacity {
		return core.NewValidationError(nil, core.FieldError{Field: "occupancy", Error: "occupancy cannot exceed capacity"})
	}
	return nil
}

type (
	Repository interface {
		CreateRoom(ctx context.Context, r Room) (Room, error)
		// QueryAllRooms returns rooms newest first.
		QueryAllRooms(ctx context.Context) ([]Room, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create expects a validated NewRoom.
func (svc *Service) Create(ctx context.Context, nr NewRoom) (Room, error) {
	r := Room{Number: nr.Number, Capacity: 1}
	if nr.Capacity != nil {
		r.Capacity = *nr.Capacity
	}
	if nr.Occupancy != nil {
		r.Occupancy = *nr.Occupancy
	}
	return svc.repo.CreateRoom(ctx, r)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Room, error) {
	return svc.repo.QueryAllRooms(ctx)
}
