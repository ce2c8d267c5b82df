package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/losaltoshacks/registration-backend/internal/domain/registrant"
	httpH "github.com/losaltoshacks/registration-backend/internal/http/handlers"
	httpMW "github.com/losaltoshacks/registration-backend/internal/http/middleware"
	"github.com/losaltoshacks/registration-backend/internal/observability"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

const metricsPath = "/metrics"

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
	// TracingService enables otelgin spans under that service name.
	TracingService string
	CORSOrigins    []string

	AuthMiddleware *httpMW.AuthMiddleware
	WaiverAuth     httpMW.BasicCredentials

	AttendeeHandler  *httpH.AttendeeHandler
	MentorHandler    *httpH.MentorHandler
	GuestHandler     *httpH.GuestHandler
	ChaperoneHandler *httpH.ChaperoneHandler

	DayOfHandler        *httpH.DayOfHandler
	WaiverHandler       *httpH.WaiverHandler
	SubscriptionHandler *httpH.SubscriptionHandler
	DiscordHandler      *httpH.DiscordHandler
	HealthHandler       *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, metricsPath))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET(metricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}

	requireAuth := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		requireAuth = cfg.AuthMiddleware.RequireAuth()
	}

	// Registrants. Attendees and mentors sign themselves up; guests and
	// chaperones are added by organisers.
	if cfg.AttendeeHandler != nil {
		registerRegistrant(r, cfg.AttendeeHandler, requireAuth, true)
	}
	if cfg.MentorHandler != nil {
		registerRegistrant(r, cfg.MentorHandler, requireAuth, true)
	}
	if cfg.GuestHandler != nil {
		registerRegistrant(r, cfg.GuestHandler, requireAuth, false)
	}
	if cfg.ChaperoneHandler != nil {
		registerRegistrant(r, cfg.ChaperoneHandler, requireAuth, false)
	}

	// Discord role lookup
	if cfg.DiscordHandler != nil {
		r.POST("/registration/v1/discord-verify", requireAuth, cfg.DiscordHandler.Verify)
	}

	// Day-of
	if cfg.DayOfHandler != nil {
		dayof := r.Group("/dayof/v1", requireAuth)
		dayof.POST("/sign-in", cfg.DayOfHandler.SignIn)
		dayof.GET("/sign-in", cfg.DayOfHandler.Counts)
		dayof.POST("/sign-out", cfg.DayOfHandler.SignOut)
		dayof.POST("/meal", cfg.DayOfHandler.Meal)
	}

	// Waiver
	if cfg.WaiverHandler != nil {
		r.POST("/waiver/v1/sign", httpMW.BasicAuth(cfg.WaiverAuth), cfg.WaiverHandler.Sign)
		r.GET("/waiver/v1/receipts", requireAuth, cfg.WaiverHandler.Receipts)
	}

	// Email list
	if cfg.SubscriptionHandler != nil {
		r.POST("/email_list/v1/subscribe", cfg.SubscriptionHandler.Subscribe)
		r.GET("/email_list/v1/subscriptions", requireAuth, cfg.SubscriptionHandler.List)
	}

	return r
}

func registerRegistrant[T any, P registrant.Record[T], D registrant.Delta[T], F registrant.Filter](
	r *gin.Engine,
	h *httpH.RegistrantHandler[T, P, D, F],
	requireAuth gin.HandlerFunc,
	publicSignup bool,
) {
	schema := h.Schema()
	g := r.Group(schema.RoutePrefix)
	if publicSignup {
		g.POST("/signup", h.Signup)
	} else {
		g.POST("/signup", requireAuth, h.Signup)
	}
	if schema.Verifies {
		g.GET("/verify/:id/:token", h.Verify)
	}

	protected := g.Group("", requireAuth)
	protected.POST("/modify/:id", h.Modify)
	protected.GET("/list", h.List)
	protected.POST("/search", h.Search)
	protected.GET("/history/:id", h.History)
	protected.GET("/delete/:id", h.Delete)
}
