package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core/notice"
	"github.com/trezcool/shms/core/user"
)

type noticeApi struct {
	s *Server
}

func registerNoticeAPI(g *echo.Group, s *Server) {
	api := noticeApi{s: s}

	g.GET("/notices", api.list)
	// publishing is gated even in legacy mode
	g.POST("/notices", api.publish, s.jwt, requireRole(user.RoleAdmin))
}

func (api *noticeApi) list(ctx echo.Context) error {
	notices, err := api.s.deps.NoticeSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying notices")
	}
	return ctx.JSON(http.StatusOK, notices)
}

func (api *noticeApi) publish(ctx echo.Context) error {
	var data notice.NewNotice
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotice")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	n, err := api.s.deps.NoticeSvc.Publish(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "publishing notice")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "notice": n})
}
