package user

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("user not found")
	ErrEmailExists = core.NewConflictError("user already exists")

	ErrInvalidPassword = errors.New("invalid password")
)

type (
	Repository interface {
		// CreateUser returns ErrEmailExists when the email is already taken.
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id int64) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUserPassword(ctx context.Context, id int64, hash []byte) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

// Register creates a new user from an already validated NewUser and sends them a welcome email.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	if _, err := svc.repo.GetUserByEmail(ctx, nu.Email); err == nil {
		return User{}, ErrEmailExists
	} else if errors.Cause(err) != ErrNotFound {
		return User{}, errors.Wrap(err, "checking email uniqueness")
	}

	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}

	if svc.mailSvc != nil {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject:      "Welcome",
			TemplateName: "welcome",
			TemplateData: usr,
		})
	}
	return usr, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// Authenticate returns the user registered with `email` if `pwd` matches its stored hash.
// It fails with ErrNotFound for unknown emails and ErrInvalidPassword on a mismatch.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.FindByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if usr.CheckPassword(pwd) != nil {
		return User{}, ErrInvalidPassword
	}
	return usr, nil
}

// VerifyPassword reports whether `pwd` matches the stored hash of the user with `email`.
// Any failure yields false.
func (svc *Service) VerifyPassword(ctx context.Context, email, pwd string) bool {
	_, err := svc.Authenticate(ctx, email, pwd)
	return err == nil
}

func (svc *Service) SetPassword(ctx context.Context, email, pwd string) error {
	usr, err := svc.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdateUserPassword(ctx, usr.ID, usr.PasswordHash)
}
