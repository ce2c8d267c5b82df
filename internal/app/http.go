package app

import (
	"github.com/losaltoshacks/registration-backend/internal/data/db"
	apphttp "github.com/losaltoshacks/registration-backend/internal/http"
	httpH "github.com/losaltoshacks/registration-backend/internal/http/handlers"
	httpMW "github.com/losaltoshacks/registration-backend/internal/http/middleware"
	"github.com/losaltoshacks/registration-backend/internal/observability"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

type Middleware struct {
	Auth   *httpMW.AuthMiddleware
	Waiver httpMW.BasicCredentials
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Attendee     *httpH.AttendeeHandler
	Mentor       *httpH.MentorHandler
	Guest        *httpH.GuestHandler
	Chaperone    *httpH.ChaperoneHandler
	DayOf        *httpH.DayOfHandler
	Waiver       *httpH.WaiverHandler
	Subscription *httpH.SubscriptionHandler
	Discord      *httpH.DiscordHandler
}

func wireHandlers(log *logger.Logger, cfg Config, database *db.Service, services Services) Handlers {
	log.Info("Wiring handlers...")
	redirect := cfg.Mail.ConfirmationRedirect
	return Handlers{
		Health:       httpH.NewHealthHandler(database),
		Attendee:     httpH.NewAttendeeHandler(services.Attendee, redirect),
		Mentor:       httpH.NewMentorHandler(services.Mentor, redirect),
		Guest:        httpH.NewGuestHandler(services.Guest),
		Chaperone:    httpH.NewChaperoneHandler(services.Chaperone),
		DayOf:        httpH.NewDayOfHandler(services.DayOf),
		Waiver:       httpH.NewWaiverHandler(services.Waiver),
		Subscription: httpH.NewSubscriptionHandler(services.Subscription),
		Discord:      httpH.NewDiscordHandler(services.Discord),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	if cfg.Auth.Disabled {
		log.Warn("authentication disabled; every protected route is open")
	}
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
		Waiver: httpMW.BasicCredentials{
			Username: cfg.Waiver.Username,
			Password: cfg.Waiver.Password,
			Disabled: cfg.Auth.Disabled,
		},
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *apphttp.Server {
	var tracingService string
	if cfg.Otel.Enabled {
		tracingService = cfg.Otel.ServiceName
	}
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:                 log,
		Metrics:             metrics,
		TracingService:      tracingService,
		CORSOrigins:         cfg.CORS.Origins,
		AuthMiddleware:      middleware.Auth,
		WaiverAuth:          middleware.Waiver,
		AttendeeHandler:     handlers.Attendee,
		MentorHandler:       handlers.Mentor,
		GuestHandler:        handlers.Guest,
		ChaperoneHandler:    handlers.Chaperone,
		DayOfHandler:        handlers.DayOf,
		WaiverHandler:       handlers.Waiver,
		SubscriptionHandler: handlers.Subscription,
		DiscordHandler:      handlers.Discord,
		HealthHandler:       handlers.Health,
	})
}
