package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/complaint"
	"github.com/trezcool/shms/core/feedback"
	"github.com/trezcool/shms/core/notice"
	"github.com/trezcool/shms/core/outpass"
	"github.com/trezcool/shms/core/report"
	"github.com/trezcool/shms/core/room"
	"github.com/trezcool/shms/core/session"
	"github.com/trezcool/shms/core/student"
	"github.com/trezcool/shms/core/user"
	"github.com/trezcool/shms/core/visitor"
)

type (
	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Sessions   *session.Issuer

		// StorageMode is core.StoragePostgres or core.StorageMemory.
		StorageMode string

		UserSvc      *user.Service
		StudentSvc   *student.Service
		ComplaintSvc *complaint.Service
		OutpassSvc   *outpass.Service
		VisitorSvc   *visitor.Service
		RoomSvc      *room.Service
		NoticeSvc    *notice.Service
		FeedbackSvc  *feedback.Service
		ReportSvc    *report.Service
	}

	Server struct {
		addr     string
		deps     *Deps
		app      *echo.Echo
		jwt      echo.MiddlewareFunc
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(addr string, deps *Deps, disableReqLogs ...bool) *Server {
	s := &Server{
		addr:     addr,
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup(len(disableReqLogs) > 0 && disableReqLogs[0])
	return s
}

func (s *Server) setup(disableReqLogs bool) {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !disableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(storageModeMiddleware(s.deps.StorageMode), metricsMiddleware())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.jwt = newJWTMiddleware(s.deps.Sessions)

	s.app.GET("/health", s.health)

	g := s.app.Group("/api")
	registerUserAPI(g, s)
	registerNoticeAPI(g, s)
	registerStudentAPI(g, s)
	registerComplaintAPI(g, s)
	registerOutpassAPI(g, s)
	registerVisitorAPI(g, s)
	registerRoomAPI(g, s)
	registerFeedbackAPI(g, s)
	registerReportAPI(g, s)
}

// gate returns the middlewares guarding a mutating endpoint.
// With auth.enforceWrites off, writes are left open.
func (s *Server) gate(roles ...string) []echo.MiddlewareFunc {
	if !s.deps.Conf.Auth.EnforceWrites {
		return nil
	}
	mws := []echo.MiddlewareFunc{s.jwt}
	if len(roles) > 0 {
		mws = append(mws, requireRole(roles...))
	}
	return mws
}

func (s *Server) Start() {
	if err := s.app.Start(s.addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

// Errors receives fatal listener errors.
func (s *Server) Errors() <-chan error {
	return s.errors
}

// ShutdownSignal receives SIGINT/SIGTERM, and the shutdown requested by handlers.
func (s *Server) ShutdownSignal() <-chan os.Signal {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func (s *Server) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"ok":       true,
		"db_ready": s.deps.StorageMode == core.StoragePostgres,
		"storage":  s.deps.StorageMode,
	})
}

// pathID parses the `:id` path param. Ids that cannot match any record are reported as not found.
func pathID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errHttpNotFound
	}
	return id, nil
}
