package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core/room"
	"github.com/trezcool/shms/core/user"
)

type roomApi struct {
	s *Server
}

func registerRoomAPI(g *echo.Group, s *Server) {
	api := roomApi{s: s}

	g.GET("/rooms", api.list)
	g.POST("/rooms", api.create, s.gate(user.RoleAdmin)...)
}

func (api *roomApi) list(ctx echo.Context) error {
	rooms, err := api.s.deps.RoomSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying rooms")
	}
	return ctx.JSON(http.StatusOK, rooms)
}

func (api *roomApi) create(ctx echo.Context) error {
	var data room.NewRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoom")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	r, err := api.s.deps.RoomSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating room")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "room": r})
}
