package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/tutorhub/backend/core"
	"github.com/tutorhub/backend/core/booking"
	"github.com/tutorhub/backend/core/child"
	"github.com/tutorhub/backend/core/tutor"
	"github.com/tutorhub/backend/core/user"
	notifsvc "github.com/tutorhub/backend/services/notification"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		UserSvc    user.Service
		TutorSvc   tutor.Service
		ChildSvc   child.Service
		BookingSvc booking.Service
		Notifs     *notifsvc.MemorySink
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(ctx context.Context) error
		Close() error
	}

	server struct {
		deps  ServerDeps
		app   *echo.Echo
		errCh chan error
		sigCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:  deps,
		app:   echo.New(),
		errCh: make(chan error, 1),
		sigCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.sigCh, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newAppJWTConfig(conf))

	registerUserAPI(v1, jwt, s.deps)
	registerTutorAPI(v1, jwt, s.deps)
	registerChildAPI(v1, jwt, s.deps)
	registerBookingAPI(v1, jwt, s.deps)
	registerNotificationAPI(v1, jwt, s.deps)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errCh <- err
	}
}

func (s *server) Errors() <-chan error { return s.errCh }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.sigCh }

// signalShutdown requests a graceful stop; used when a shutdown error is caught.
func (s *server) signalShutdown() {
	s.sigCh <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to TutorHub API!")
}
