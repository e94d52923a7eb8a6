package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/lborres/civika"
)

// handleSignUp registers a new account and returns its credentials.
// The plaintext password appears in this response exactly once.
func handleSignUp(c *civika.Civika) fiber.Handler {
	return func(fctx fiber.Ctx) error {
		var input civika.SignupInput
		if err := fctx.Bind().Body(&input); err != nil {
			return fctx.Status(http.StatusBadRequest).JSON(map[string]string{
				"error": "invalid request body",
			})
		}

		credentials, err := c.Sessions.Signup(input)
		if err != nil {
			return handleError(fctx, err)
		}

		return fctx.Status(http.StatusCreated).JSON(credentials)
	}
}

type signInRequest struct {
	AccountID string `json:"accountId"`
	Password  string `json:"password"`
}

func handleSignIn(c *civika.Civika) fiber.Handler {
	return func(fctx fiber.Ctx) error {
		var input signInRequest
		if err := fctx.Bind().Body(&input); err != nil {
			return fctx.Status(http.StatusBadRequest).JSON(map[string]string{
				"error": "invalid request body",
			})
		}

		ok, err := c.Sessions.Login(input.AccountID, input.Password)
		if err != nil {
			return handleError(fctx, err)
		}
		if !ok {
			return handleError(fctx, civika.ErrInvalidCredentials)
		}

		return fctx.Status(http.StatusOK).JSON(map[string]interface{}{
			"account": c.Sessions.Current(),
			"token":   c.Sessions.Token(),
		})
	}
}

func handleSignOut(c *civika.Civika) fiber.Handler {
	return func(fctx fiber.Ctx) error {
		if err := c.Sessions.Logout(); err != nil {
			return handleError(fctx, err)
		}

		return fctx.Status(http.StatusOK).JSON(map[string]string{
			"message": "signed out successfully",
		})
	}
}

func handleSession(c *civika.Civika) fiber.Handler {
	return func(fctx fiber.Ctx) error {
		account := fctx.Locals("account").(*civika.Account)
		return fctx.Status(http.StatusOK).JSON(account)
	}
}

func handleCreateSubmission(c *civika.Civika) fiber.Handler {
	return func(fctx fiber.Ctx) error {
		var input civika.SubmissionInput
		if err := fctx.Bind().Body(&input); err != nil {
			return fctx.Status(http.StatusBadRequest).JSON(map[string]string{
				"error": "invalid request body",
			})
		}

		submission, err := c.Ledger.Append(input)
		if err != nil {
			return handleError(fctx, err)
		}

		return fctx.Status(http.StatusCreated).JSON(submission)
	}
}

func handleListSubmissions(c *civika.Civika) fiber.Handler {
	return func(fctx fiber.Ctx) error {
		submissions, err := c.Ledger.List()
		if err != nil {
			return handleError(fctx, err)
		}

		return fctx.Status(http.StatusOK).JSON(submissions)
	}
}

func handleResolveSubmission(c *civika.Civika) fiber.Handler {
	return func(fctx fiber.Ctx) error {
		if err := c.Ledger.Resolve(fctx.Params("id")); err != nil {
			return handleError(fctx, err)
		}

		return fctx.Status(http.StatusOK).JSON(map[string]string{
			"message": "submission resolved",
		})
	}
}

func handleStatistics(c *civika.Civika) fiber.Handler {
	return func(fctx fiber.Ctx) error {
		stats, err := c.Ledger.Statistics()
		if err != nil {
			return handleError(fctx, err)
		}

		return fctx.Status(http.StatusOK).JSON(stats)
	}
}

// extractToken extracts the session token from the request.
// Checks Authorization header (Bearer token) first, then falls back to cookie.
func extractToken(c fiber.Ctx) string {
	// Try Bearer token first
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}

	// Fall back to cookie
	return c.Cookies("auth_token")
}

// handleError maps domain errors to appropriate HTTP responses
func handleError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	return c.Status(status).JSON(map[string]string{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps civika error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, civika.ErrInvalidCredentials),
		errors.Is(err, civika.ErrNotAuthenticated),
		errors.Is(err, civika.ErrInvalidToken),
		errors.Is(err, civika.ErrTokenExpired):
		return http.StatusUnauthorized

	case errors.Is(err, civika.ErrNameRequired),
		errors.Is(err, civika.ErrEmailRequired),
		errors.Is(err, civika.ErrInvalidRole):
		return http.StatusBadRequest

	case errors.Is(err, civika.ErrAccountExists):
		return http.StatusConflict

	case errors.Is(err, civika.ErrAccountNotFound),
		errors.Is(err, civika.ErrSubmissionNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
