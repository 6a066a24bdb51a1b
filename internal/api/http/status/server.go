package status

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/oshokin/space-status/internal/auth"
	"github.com/oshokin/space-status/internal/config"
	domain "github.com/oshokin/space-status/internal/domain/presence"
	"github.com/oshokin/space-status/internal/logger"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	RequestTransition(ctx context.Context, target domain.State) (domain.Outcome, error)
	Current(ctx context.Context) *domain.Record
}

// Headers carrying the auth token and the issued challenge nonce.
const (
	// HeaderAuthToken is the request header with the API key or
	// challenge-response token.
	HeaderAuthToken = "X-Auth-Token"
	// HeaderAuthChallenge is the response header with a fresh
	// challenge nonce.
	HeaderAuthChallenge = "X-Auth-Challenge"
)

// Options wires the HTTP server's collaborators.
type Options struct {
	// Service performs the state transitions.
	Service Service
	// Guard authorizes transition requests.
	Guard auth.Guard
	// Issuer hands out challenge nonces. Nil in static key mode,
	// which turns /auth_challenge into a 404.
	Issuer auth.ChallengeIssuer
	// Space is the metadata for the public status document.
	Space config.SpaceConfig
	// RateLimit bounds the transition routes.
	RateLimit config.RateLimitConfig
}

// Server is the HTTP front of the status service.
type Server struct {
	app     *fiber.App
	service Service
	guard   auth.Guard
	issuer  auth.ChallengeIssuer
	space   config.SpaceConfig
}

// NewServer builds the fiber application with all routes registered.
func NewServer(opts Options) *Server {
	s := &Server{
		service: opts.Service,
		guard:   opts.Guard,
		issuer:  opts.Issuer,
		space:   opts.Space,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	limited := limiter.New(limiter.Config{
		Max:        opts.RateLimit.MaxRequests,
		Expiration: opts.RateLimit.Window,
	})

	app.Get("/open", limited, s.requireAuth, s.handleTransition(domain.Open))
	app.Get("/open_intern", limited, s.requireAuth, s.handleTransition(domain.OpenIntern))
	app.Get("/close", limited, s.requireAuth, s.handleTransition(domain.Closed))
	app.Get("/auth_challenge", limited, s.handleChallenge)
	app.Get("/spaceapi.json", s.handleSpaceAPI)

	s.app = app

	return s
}

// Listen serves HTTP on the provided address until Shutdown is called.
func (s *Server) Listen(address string) error {
	return s.app.Listen(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// Test dispatches a request against the in-process app, used by tests.
func (s *Server) Test(req *http.Request) (*http.Response, error) {
	return s.app.Test(req)
}

// requireAuth rejects the request before any state is observed or touched
// when the supplied token does not pass the guard.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	if err := s.guard.Validate(c.Get(HeaderAuthToken)); err != nil {
		logger.WarnKV(c.UserContext(), "Rejected transition request",
			"path", c.Path(), "ip", c.IP(), "reason", err.Error())

		return c.SendStatus(fiber.StatusUnauthorized)
	}

	return c.Next()
}

// handleTransition maps a route onto a transition request.
// 200 on change, 208 when the state was already current, 500 when the
// record could not be persisted.
func (s *Server) handleTransition(target domain.State) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		logger.InfoKV(ctx, "Transition requested",
			"target", target.String(), "ip", c.IP())

		outcome, err := s.service.RequestTransition(ctx, target)
		if err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}

		if outcome == domain.OutcomeAlreadyReported {
			return c.SendStatus(fiber.StatusAlreadyReported)
		}

		return c.SendStatus(fiber.StatusOK)
	}
}

// handleChallenge issues a fresh single-use challenge nonce in a
// response header. Unavailable in static key deployments.
func (s *Server) handleChallenge(c *fiber.Ctx) error {
	if s.issuer == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	nonce, err := s.issuer.IssueChallenge()
	if err != nil {
		logger.ErrorKV(c.UserContext(), "Failed to issue challenge", "error", err)

		return c.SendStatus(fiber.StatusInternalServerError)
	}

	c.Set(HeaderAuthChallenge, nonce)

	return c.SendStatus(fiber.StatusOK)
}
