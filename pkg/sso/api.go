package sso

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// API is the thin HTTP layer over the sign-in flow.
type API struct {
	service  *Service
	renderer *Renderer
}

func NewAPI(service *Service, renderer *Renderer) *API {
	return &API{
		service:  service,
		renderer: renderer,
	}
}

func (a *API) MountRoutes(group *echo.Group) {
	group.GET("/oidc", a.SignInEndpoint)
	group.GET("/oidc/callback", a.SignInCallbackEndpoint)
}

// SignInEndpoint redirects the browser to the IdP authorization endpoint,
// forwarding the caller-supplied state value verbatim.
func (a *API) SignInEndpoint(c echo.Context) error {
	state := c.QueryParam("state")
	return c.Redirect(http.StatusFound, a.service.AuthorizationURL(state))
}

// SignInCallbackEndpoint completes the flow. Success and failure both render
// HTML with status 200; failures only ever expose the error's message text.
func (a *API) SignInCallbackEndpoint(c echo.Context) error {
	code := c.QueryParam("code")
	acceptLanguage := c.Request().Header.Get("Accept-Language")

	result, err := a.service.Callback(c.Request().Context(), code, acceptLanguage)
	if err != nil {
		slog.Error("sign-in failed", "error", err)
		return a.renderError(c, err.Error())
	}

	html, err := a.renderer.SignUpSuccess(result.Token, result.User, result.Nonce)
	if err != nil {
		slog.Error("sign-in failed", "error", err)
		return a.renderError(c, err.Error())
	}

	c.Response().Header().Set("Content-Security-Policy", fmt.Sprintf("script-src 'nonce-%s'", result.Nonce))
	return c.HTML(http.StatusOK, html)
}

func (a *API) renderError(c echo.Context, message string) error {
	html, err := a.renderer.SignUpError(message)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.HTML(http.StatusOK, html)
}
