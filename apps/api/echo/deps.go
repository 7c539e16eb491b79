package echoapi

import (
	"github.com/go-playground/validator/v10"

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
	"github.com/trezcool/shms/storage/database"
)

// NewDeps wires every domain service on top of `store`.
func NewDeps(conf *core.Config, logger core.Logger, store *database.Store, mailSvc core.EmailService) *Deps {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	studSvc := student.NewService(store.Students)
	compSvc := complaint.NewService(store.Complaints, studSvc)
	outSvc := outpass.NewService(store.Outpasses, studSvc, logger, conf)
	fbSvc := feedback.NewService(store.Feedbacks, studSvc)

	return &Deps{
		Conf:         conf,
		Logger:       logger,
		Validate:     validate,
		Translator:   translator,
		Sessions:     session.NewIssuer(conf),
		StorageMode:  store.Mode,
		UserSvc:      user.NewService(store.Users, mailSvc),
		StudentSvc:   studSvc,
		ComplaintSvc: compSvc,
		OutpassSvc:   outSvc,
		VisitorSvc:   visitor.NewService(store.Visitors),
		RoomSvc:      room.NewService(store.Rooms),
		NoticeSvc:    notice.NewService(store.Notices),
		FeedbackSvc:  fbSvc,
		ReportSvc:    report.NewService(studSvc, compSvc, outSvc, fbSvc),
	}
}
