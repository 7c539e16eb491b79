package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/student"
	"github.com/trezcool/shms/core/user"
	logsvc "github.com/trezcool/shms/services/logger"
	"github.com/trezcool/shms/storage/database"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger("ADMIN : ", conf), conf)
	logger.Enable(false)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer db.Close()
	if err = database.Ping(context.Background(), db, conf.Database.PingAttempts); err != nil {
		logger.Fatal(fmt.Sprintf("pinging database: %v", err), err)
	}
	store := database.NewSQLStore(db)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:       db.DB,
		validate: validate,
		usrSvc:   user.NewService(store.Users, nil),
		studSvc:  student.NewService(store.Students),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
