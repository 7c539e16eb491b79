package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core/student"
	"github.com/trezcool/shms/core/user"
)

type studentApi struct {
	s *Server
}

func registerStudentAPI(g *echo.Group, s *Server) {
	api := studentApi{s: s}

	g.GET("/students", api.list)
	g.POST("/students", api.create, s.gate(user.RoleAdmin)...)
}

func (api *studentApi) list(ctx echo.Context) error {
	studs, err := api.s.deps.StudentSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, studs)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	stud, err := api.s.deps.StudentSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "student": stud})
}
