package sso

import (
	"fmt"
	"html/template"
	"strings"
)

// Renderer produces the two HTML documents the callback endpoint serves: the
// success page that hands the session token to the browser, and the error
// page with a retry link.
type Renderer struct {
	remember  bool
	adminURL  string
	logoutURL string
}

func NewRenderer(cfg Config) *Renderer {
	return &Renderer{
		remember:  cfg.RememberMe,
		adminURL:  cfg.AdminURL,
		logoutURL: cfg.LogoutURL(),
	}
}

// SignUpSuccess renders the page storing the session token and user info in
// client-side storage before redirecting to the admin application. The
// inline script carries the CSP nonce; the caller sets the matching header.
func (r *Renderer) SignUpSuccess(token string, user *User, nonce string) (string, error) {
	data := map[string]any{
		"Nonce":    nonce,
		"Token":    token,
		"User":     user,
		"AdminURL": r.adminURL,
		"Remember": r.remember,
	}

	var sb strings.Builder
	if err := successTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("unable to render success page: %w", err)
	}
	return sb.String(), nil
}

// SignUpError renders the failure page. Only the message text of the failed
// step appears; the logout link lets the user retry with another account.
func (r *Renderer) SignUpError(message string) (string, error) {
	data := map[string]any{
		"Message":   message,
		"LogoutURL": template.URL(r.logoutURL),
	}

	var sb strings.Builder
	if err := errorTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("unable to render error page: %w", err)
	}
	return sb.String(), nil
}

var successTemplate = template.Must(template.New("success").Parse(`<!doctype html>
<html>
<head>
<noscript>
<h3>JavaScript must be enabled for authentication</h3>
</noscript>
<script nonce="{{.Nonce}}">
window.addEventListener('load', function() {
  {{if .Remember}}localStorage{{else}}sessionStorage{{end}}.setItem('jwtToken', JSON.stringify({{.Token}}));
  {{if .Remember}}localStorage{{else}}sessionStorage{{end}}.setItem('userInfo', JSON.stringify({{.User}}));
  location.href = {{.AdminURL}};
})
</script>
</head>
<body>
</body>
</html>
`))

var errorTemplate = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Authentication Failed</title>
  <style>
    body {
      font-family: Arial, sans-serif;
      background-color: #141414;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      color: #ffffff;
    }

    .container {
      text-align: center;
      background-color: #0a0a0a;
      padding: 30px;
      border-radius: 0.5rem;
      box-shadow: 0 2px 15px rgba(0, 0, 0, 0.1);
      max-width: 400px;
      width: 100%;
    }

    h3 {
      font-size: 24px;
      color: #7f1d1d;
      margin-bottom: 20px;
    }

    p {
      font-size: 16px;
      margin-bottom: 20px;
      color: #fafafa;
    }

    a {
      text-decoration: none;
      font-weight: bold;
      font-size: 16px;
      padding: 10px 20px;
      background-color: #83878b;
      color: #fafafa;
      border-radius: 0.5rem;
      transition: background-color 0.3s ease;
    }

    a:hover {
      background-color: #0a0a0a;
    }
  </style>
</head>
<body>
  <div class="container">
    <h3>Authentication failed</h3>
    <p>{{.Message}}</p>
    <a href="{{.LogoutURL}}">
      Try Another Account
    </a>
  </div>
</body>
</html>
`))
