package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core/complaint"
	"github.com/trezcool/shms/core/user"
)

type complaintApi struct {
	s *Server
}

func registerComplaintAPI(g *echo.Group, s *Server) {
	api := complaintApi{s: s}

	g.GET("/complaints", api.list)
	g.POST("/complaints", api.create, s.gate()...)
	g.PUT("/complaints/:id", api.update, s.gate(user.RoleAdmin, user.RoleStaff)...)
}

func (api *complaintApi) list(ctx echo.Context) error {
	comps, err := api.s.deps.ComplaintSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying complaints")
	}
	return ctx.JSON(http.StatusOK, comps)
}

func (api *complaintApi) create(ctx echo.Context) error {
	var data complaint.NewComplaint
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComplaint")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	comp, err := api.s.deps.ComplaintSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating complaint")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "complaint": comp})
}

// update applies the given patch; an empty patch resolves the complaint.
func (api *complaintApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data complaint.UpdateComplaint
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateComplaint")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	var comp complaint.Complaint
	if data.Category == nil && data.Details == nil && data.Status == nil {
		comp, err = api.s.deps.ComplaintSvc.Resolve(ctx.Request().Context(), id)
	} else {
		comp, err = api.s.deps.ComplaintSvc.Update(ctx.Request().Context(), id, data)
	}
	if err != nil {
		return errors.Wrap(err, "updating complaint")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "complaint": comp})
}
