package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/tutorhub/backend/apps/api/echo"
	"github.com/tutorhub/backend/core"
	"github.com/tutorhub/backend/core/booking"
	"github.com/tutorhub/backend/core/child"
	"github.com/tutorhub/backend/core/tutor"
	"github.com/tutorhub/backend/core/user"
	emailsvc "github.com/tutorhub/backend/services/email"
	logsvc "github.com/tutorhub/backend/services/logger"
	notifsvc "github.com/tutorhub/backend/services/notification"
	inmemdb "github.com/tutorhub/backend/storage/database/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// state lives in memory only; a restart starts from a blank slate
	db := inmemdb.Open()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	notifs := notifsvc.NewMemorySink()
	var sink core.NotificationSink = notifs
	if conf.Debug {
		sink = notifsvc.NewConsoleSink(logger, notifs)
	}

	usrSvc := user.NewService(inmemdb.NewUserRepository(db), mailSvc, conf)
	tutSvc := tutor.NewService(inmemdb.NewTutorRepository(db))
	chdSvc := child.NewService(inmemdb.NewChildRepository(db))
	bkgSvc := booking.NewService(
		inmemdb.NewBookingRepository(db), tutSvc, chdSvc, usrSvc, sink, mailSvc, conf)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	tutor.InitValidators(validate, translator)

	// provision the bootstrap admin account; registration never grants admin
	if conf.AdminEmail != "" && conf.AdminPassword != "" {
		_, err := usrSvc.Create(user.NewUser{
			Name: "Admin", Email: conf.AdminEmail, Role: user.RoleAdmin,
			Password: conf.AdminPassword, PasswordConfirm: conf.AdminPassword,
		})
		if err != nil {
			logger.Fatal(fmt.Sprintf("provisioning admin: %v", err), err)
		}
	}

	if conf.Debug {
		if err := seedDevData(usrSvc, tutSvc, chdSvc); err != nil {
			logger.Fatal(fmt.Sprintf("seeding dev data: %v", err), err)
		}
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UserSvc:    usrSvc,
			TutorSvc:   tutSvc,
			ChildSvc:   chdSvc,
			BookingSvc: bkgSvc,
			Notifs:     notifs,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
