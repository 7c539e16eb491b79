package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/session"
	"github.com/trezcool/shms/core/user"
)

const minPasswordLen = 4

type userApi struct {
	s *Server
}

func registerUserAPI(g *echo.Group, s *Server) {
	api := userApi{s: s}

	// un-authed endpoints
	g.POST("/login", api.login)
	g.POST("/register", api.register)
}

type (
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	// SessionUser is the user returned on login and registration.
	// For students, ID, Name and Room come from the student record.
	SessionUser struct {
		ID    int64  `json:"id,omitempty"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Room  string `json:"room,omitempty"`
		Role  string `json:"role"`
	}

	SessionResponse struct {
		Success bool        `json:"success"`
		User    SessionUser `json:"user"`
		Token   string      `json:"token"`
	}
)

func (lr *LoginRequest) clean() {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	lr.Role = user.NormalizeRole(lr.Role)
}

// authenticate checks the stored credentials of `lr.Email`. With demo login on, an email that
// matches no stored user (or a failed lookup) yields a demo identity instead.
func (api *userApi) authenticate(ctx echo.Context, lr LoginRequest) (session.Identity, error) {
	deps := api.s.deps
	usr, err := deps.UserSvc.Authenticate(ctx.Request().Context(), lr.Email, lr.Password)
	switch errors.Cause(err) {
	case nil:
		return session.Identity{ID: usr.ID, Name: usr.Name, Email: usr.Email, Role: usr.Role}, nil
	case user.ErrInvalidPassword:
		return session.Identity{}, errInvalidCredentials
	case user.ErrNotFound:
	default:
		deps.Logger.Warn(fmt.Sprintf("finding user by email: %v", err), err)
	}
	if !deps.Conf.Auth.DemoLogin {
		return session.Identity{}, errInvalidCredentials
	}

	role := lr.Role
	if role == "" {
		role = user.RoleStudent
	}
	if !user.IsValidRole(role) {
		return session.Identity{}, core.NewValidationError(nil, core.FieldError{Field: "role", Error: "invalid role"})
	}
	if !demoRoleAllowed(deps.Conf.Auth.DemoRoles, role) {
		return session.Identity{}, errInvalidCredentials
	}
	return session.Identity{Name: core.EmailLocalPart(lr.Email), Email: lr.Email, Role: role}, nil
}

func demoRoleAllowed(allowed []string, role string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if user.NormalizeRole(r) == role {
			return true
		}
	}
	return false
}

// sessionUser ensures a student record for student identities. Failing to do so is only logged.
func (api *userApi) sessionUser(ctx echo.Context, ident session.Identity) SessionUser {
	su := SessionUser{ID: ident.ID, Name: ident.Name, Email: ident.Email, Role: ident.Role}
	if ident.Role != user.RoleStudent {
		return su
	}
	stud, err := api.s.deps.StudentSvc.EnsureByEmail(ctx.Request().Context(), ident.Email, ident.Name)
	if err != nil {
		api.s.deps.Logger.Warn(fmt.Sprintf("ensuring student %s: %v", ident.Email, err), err, ident)
		return su
	}
	su.ID = stud.ID
	su.Name = stud.Name
	su.Room = stud.Room
	return su
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	data.clean()
	if data.Email == "" || data.Password == "" {
		return errMissingCredentials
	}
	if !core.IsEmailLike(data.Email) || len(data.Password) < minPasswordLen {
		return errInvalidCredentials
	}

	ident, err := api.authenticate(ctx, data)
	if err != nil {
		return err
	}
	token, err := api.s.deps.Sessions.Issue(ident)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}

	return ctx.JSON(http.StatusOK, SessionResponse{
		Success: true,
		User:    api.sessionUser(ctx, ident),
		Token:   token,
	})
}

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	usr, err := api.s.deps.UserSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	ident := session.Identity{ID: usr.ID, Name: usr.Name, Email: usr.Email, Role: usr.Role}
	token, err := api.s.deps.Sessions.Issue(ident)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}

	return ctx.JSON(http.StatusCreated, SessionResponse{
		Success: true,
		User:    api.sessionUser(ctx, ident),
		Token:   token,
	})
}
