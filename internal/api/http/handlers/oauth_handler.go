package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/event-tickets/internal/oauth"
	apperrors "github.com/spec-kit/event-tickets/pkg/util/errorutil"
)

// OAuthHandler drives the Google login entry point.
type OAuthHandler struct {
	provider      oauth.Provider
	states        *oauth.StateManager
	identities    IdentityResolver
	issuer        TicketIssuer
	defaultOrigin string
	logger        *zap.Logger
}

// NewOAuthHandler constructs handler.
func NewOAuthHandler(provider oauth.Provider, states *oauth.StateManager, identities IdentityResolver, issuer TicketIssuer, defaultOrigin string, logger *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		provider:      provider,
		states:        states,
		identities:    identities,
		issuer:        issuer,
		defaultOrigin: defaultOrigin,
		logger:        logger,
	}
}

// Login handles GET /google: redirects to the provider consent URL with a
// signed state carrying the origin hint.
func (h *OAuthHandler) Login(c *fiber.Ctx) error {
	origin := c.Query("origin", h.defaultOrigin)
	state, err := h.states.Issue(c.UserContext(), origin)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	url := h.provider.AuthCodeURL(state)
	h.logger.Info("redirecting to provider consent", zap.String("origin", origin))
	return c.Redirect(url, http.StatusFound)
}

// Callback handles GET /google/callback: exchanges the code, resolves the
// identity (re-entry allowed — a repeat login gets a fresh ticket), runs the
// issuance workflow, and redirects to the ticket viewer.
func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return apperrors.NewValidationError("No code provided", nil)
	}

	origin, err := h.states.Verify(c.UserContext(), c.Query("state"))
	if err != nil {
		h.logger.Warn("oauth state rejected", zap.Error(err))
		return apperrors.NewValidationError("Invalid state", nil)
	}
	if origin == "" {
		origin = h.defaultOrigin
	}

	profile, err := h.provider.Authenticate(c.UserContext(), code)
	if err != nil {
		return apperrors.NewUpstreamAuthFailed("Authentication failed", http.StatusInternalServerError, err)
	}
	if profile.Email == "" || profile.Name == "" {
		return apperrors.NewUpstreamAuthFailed("Failed to get user info", http.StatusBadRequest, nil)
	}

	user, _, err := h.identities.ResolveOrCreate(c.UserContext(), profile.Name, profile.Email, profile.Subject)
	if err != nil {
		return err
	}

	issued, err := h.issuer.Issue(c.UserContext(), user, origin)
	if err != nil {
		return err
	}
	return c.Redirect(issued.RedirectURL, http.StatusFound)
}
