// Package demo is a demonstration application for the waltz handler
// chain: every route exercises one concern in isolation (auth, caching,
// model binding, views, uploads, fault handling).
package demo

import (
	"time"

	"go.uber.org/zap"

	"github.com/davgren/waltz"
	"github.com/davgren/waltz/httpcontext"
	"github.com/davgren/waltz/middlewares/auth"
	"github.com/davgren/waltz/middlewares/cache"
	"github.com/davgren/waltz/middlewares/logger"
	panicmw "github.com/davgren/waltz/middlewares/panic"
)

const claimIssuer = "waltz-demo"

type App struct {
	cfg  Config
	log  *zap.Logger
	auth *auth.Authenticator
}

func New(cfg Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.L()
	}

	return &App{
		cfg: cfg,
		log: log,
		auth: auth.New(auth.Options{
			Secret: []byte(cfg.Session.Secret),
			Cookie: cfg.Session.Cookie,
			TTL:    time.Duration(cfg.Session.TTL) * time.Second,
			Issuer: claimIssuer,
		}),
	}
}

// Server builds the route table. The table is immutable once the first
// request is dispatched.
func (a *App) Server() *waltz.Waltz {
	server := waltz.NewWithOptions(&waltz.Options{Debug: a.cfg.Debug})

	server.Use(panicmw.New(), logger.LoggerWithZap(a.log))

	// Captured when the table is built; /once answers the same value
	// for the lifetime of the process, unlike /everytime.
	once := time.Now().Format(time.RFC3339Nano)

	server.Get("/", text("index"))
	server.Get("/ping", text("pong"))
	server.Get("/error", a.alwaysFails)

	server.Get("/login", a.login)
	server.Get("/logout", a.logout)
	server.Get("/user", a.auth.Authenticated(), a.currentUser)
	server.Get("/john-only",
		a.auth.Authenticated(),
		a.auth.RequireClaim(httpcontext.ClaimTypeName, "John"),
		text("Hello John"))
	server.Get("/user/:id:int",
		a.auth.Authenticated(),
		a.auth.RequireRole("Admin"),
		a.userByID)

	server.Get("/person", a.person)

	server.Get("/once", text(once))
	server.Get("/everytime", a.everytime)

	server.Get("/configured", a.configured)

	server.Get("/upload", a.upload)
	server.Get("/upload2", a.upload)

	server.Get("/cache/1",
		cache.New(&cache.Policy{MaxAge: 30}),
		a.randomID)
	server.Get("/cache/2",
		cache.New(&cache.Policy{MaxAge: 30, VaryBy: []string{"Accept", "Accept-Encoding"}}),
		a.randomID)
	server.Get("/cache/3",
		cache.New(&cache.Policy{NoCache: true}),
		a.randomID)

	server.Post("/car", a.submitCar)
	server.Post("/car2", a.submitCarFromQuery)

	return server
}

func text(body string) httpcontext.HandlerFunc {
	return func(ctx *httpcontext.Context) error {
		return ctx.Text(body)
	}
}
