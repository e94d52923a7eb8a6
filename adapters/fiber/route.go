package fiber

import (
	"github.com/gofiber/fiber/v3"
	"github.com/lborres/civika"
)

type Adapter struct {
	app *fiber.App
}

var _ civika.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

func (a *Adapter) RegisterRoutes(c *civika.Civika) error {
	api := a.app.Group(c.BasePath)

	// Public routes
	api.Post("/sign-up", handleSignUp(c))
	api.Post("/sign-in", handleSignIn(c))

	// Protected routes
	auth := Protected(c)
	api.Post("/sign-out", auth, handleSignOut(c))
	api.Get("/session", auth, handleSession(c))
	api.Post("/submissions", auth, handleCreateSubmission(c))
	api.Get("/submissions", auth, handleListSubmissions(c))
	api.Post("/submissions/:id/resolve", auth, handleResolveSubmission(c))
	api.Get("/statistics", auth, handleStatistics(c))

	return nil
}
