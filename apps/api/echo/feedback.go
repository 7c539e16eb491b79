package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core/feedback"
)

type feedbackApi struct {
	s *Server
}

func registerFeedbackAPI(g *echo.Group, s *Server) {
	api := feedbackApi{s: s}

	g.GET("/feedbacks", api.list)
	g.POST("/feedbacks", api.submit, s.gate()...)
}

func (api *feedbackApi) list(ctx echo.Context) error {
	fbs, err := api.s.deps.FeedbackSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying feedbacks")
	}
	return ctx.JSON(http.StatusOK, fbs)
}

func (api *feedbackApi) submit(ctx echo.Context) error {
	var data feedback.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	fb, err := api.s.deps.FeedbackSvc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting feedback")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "feedback": fb})
}
