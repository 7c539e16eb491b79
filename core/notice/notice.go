package notice

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shms/core"
)

const DefaultCategory = "General"

type Notice struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"` // YYYY-MM-DD
	Content  string `json:"content"`
	Archived bool   `json:"archived"`
}

type NewNotice struct {
	Title    string `json:"title" validate:"required"`
	Category string `json:"category"`
	Date     string `json:"date" validate:"omitempty,isodate"`
	Content  string `json:"content"`
	Archived bool   `json:"archived"`
}

func (nn *NewNotice) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Category = core.CleanString(nn.Category)
	nn.Date = core.CleanString(nn.Date)
	nn.Content = core.CleanString(nn.Content)
	return validate.Struct(nn)
}

type (
	Repository interface {
		CreateNotice(ctx context.Context, n Notice) (Notice, error)
		// QueryAllNotices returns notices by date, newest first.
		QueryAllNotices(ctx context.Context) ([]Notice, error)
	}

	Service struct {
		repo Repository
		now  func() time.Time
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (svc *Service) Publish(ctx context.Context, nn NewNotice) (Notice, error) {
	n := Notice{
		Title:    nn.Title,
		Category: nn.Category,
		Date:     nn.Date,
		Content:  nn.Content,
		Archived: nn.Archived,
	}
	if n.Category == "" {
		n.Category = DefaultCategory
	}
	if n.Date == "" {
		n.Date = svc.now().Format(core.DateLayout)
	}
	return svc.repo.CreateNotice(ctx, n)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Notice, error) {
	return svc.repo.QueryAllNotices(ctx)
}
