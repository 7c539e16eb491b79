package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core/outpass"
	"github.com/trezcool/shms/core/user"
)

type outpassApi struct {
	s *Server
}

func registerOutpassAPI(g *echo.Group, s *Server) {
	api := outpassApi{s: s}

	g.GET("/outpasses", api.list)
	g.POST("/outpasses", api.request, s.gate()...)
	g.PUT("/outpasses/:id", api.update, s.gate(user.RoleAdmin, user.RoleStaff, user.RoleSecurity)...)
}

func (api *outpassApi) list(ctx echo.Context) error {
	outs, err := api.s.deps.OutpassSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying outpasses")
	}
	return ctx.JSON(http.StatusOK, outs)
}

func (api *outpassApi) request(ctx echo.Context) error {
	var data outpass.NewOutpass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOutpass")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	out, err := api.s.deps.OutpassSvc.Request(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "requesting outpass")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "outpass": out})
}

func (api *outpassApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data outpass.UpdateOutpass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateOutpass")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	out, err := api.s.deps.OutpassSvc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating outpass")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "outpass": out})
}
