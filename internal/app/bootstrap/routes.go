// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	healthfeature "github.com/leaguehub/leaguehub/internal/app/features/health"
	leaguesfeature "github.com/leaguehub/leaguehub/internal/app/features/leagues"
	membershipfeature "github.com/leaguehub/leaguehub/internal/app/features/membership"
	profilefeature "github.com/leaguehub/leaguehub/internal/app/features/profile"
	"github.com/leaguehub/leaguehub/internal/app/system/auth"
	"github.com/leaguehub/leaguehub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. The health endpoint stays open; every
// other route requires a signed bearer token.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Loads the token user into the request context when a valid bearer
	// token is present; anonymous requests pass through and are rejected
	// per-route by RequireSignedIn.
	r.Use(auth.LoadBearerUser)

	healthHandler := &healthfeature.Handler{Client: deps.MongoClient, Log: logger}
	r.Mount("/health", healthfeature.Routes(healthHandler))

	profileHandler := profilefeature.NewHandler(deps.MongoClient, deps.Users, deps.Nicknames, deps.Engine, logger)
	leaguesHandler := &leaguesfeature.Handler{
		Client:  deps.MongoClient,
		Cfg:     deps.Engine.Cfg,
		Users:   deps.Users,
		Leagues: deps.Leagues,
		Roles:   deps.Roles,
		Members: deps.Members,
		Invites: deps.Invites,
		Policy:  deps.Policy,
		Blobs:   deps.Blobs,
		Log:     logger,
	}
	membershipHandler := &membershipfeature.Handler{
		JoinLimit:    ratelimit.NewJoinLimiter(),
		Client:       deps.MongoClient,
		Cfg:          deps.Engine.Cfg,
		Users:        deps.Users,
		Leagues:      deps.Leagues,
		Members:      deps.Members,
		Invites:      deps.Invites,
		JoinRequests: deps.JoinRequests,
		Policy:       deps.Policy,
		Log:          logger,
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)

		r.Mount("/profile", profilefeature.Routes(profileHandler))
		r.Route("/leagues", func(r chi.Router) {
			leaguesfeature.Register(r, leaguesHandler)
			membershipfeature.Register(r, membershipHandler)
		})
	})

	return r, nil
}
