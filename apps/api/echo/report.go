package echoapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core/report"
)

const reportFilename = "report.csv"

type reportApi struct {
	s *Server
}

func registerReportAPI(g *echo.Group, s *Server) {
	api := reportApi{s: s}

	g.GET("/reports", api.csv)
	g.GET("/stats", api.stats)
}

type StatsResponse struct {
	Success bool         `json:"success"`
	Stats   report.Stats `json:"stats"`
}

func (api *reportApi) stats(ctx echo.Context) error {
	stats, err := api.s.deps.ReportSvc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, StatsResponse{Success: true, Stats: stats})
}

// csv is rendered into a buffer first so a failing query still gets a JSON error response.
func (api *reportApi) csv(ctx echo.Context) error {
	var buf bytes.Buffer
	if err := api.s.deps.ReportSvc.WriteCSV(ctx.Request().Context(), &buf); err != nil {
		return errors.Wrap(err, "writing report")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+reportFilename+`"`)
	return ctx.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
