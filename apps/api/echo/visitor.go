package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core/user"
	"github.com/trezcool/shms/core/visitor"
)

type visitorApi struct {
	s *Server
}

func registerVisitorAPI(g *echo.Group, s *Server) {
	api := visitorApi{s: s}

	g.GET("/visitors", api.list)
	g.POST("/visitors", api.register, s.gate(user.RoleAdmin, user.RoleStaff, user.RoleSecurity)...)
}

func (api *visitorApi) list(ctx echo.Context) error {
	visitors, err := api.s.deps.VisitorSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying visitors")
	}
	return ctx.JSON(http.StatusOK, visitors)
}

func (api *visitorApi) register(ctx echo.Context) error {
	var data visitor.NewVisitor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVisitor")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	v, err := api.s.deps.VisitorSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering visitor")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "visitor": v})
}
