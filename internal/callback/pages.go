package callback

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/florianilch/hootsweet/tokensource"
)

var successPage = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head><title>Hootsuite authorization</title></head>
<body>
<h1>You can now access the Hootsuite API.</h1>
<h3>Please close this window.</h3>
</body>
</html>
`))

var failurePage = template.Must(template.New("failure").Parse(`<!DOCTYPE html>
<html>
<head><title>Hootsuite authorization</title></head>
<body>
<h1>Authorization unsuccessful - {{.Error}}</h1>
<p>{{.Description}}</p>
<p>{{.Hint}}</p>
</body>
</html>
`))

// failure is rendered into failurePage.
type failure struct {
	Error       string
	Description string
	Hint        string
}

// exchangeFailure describes a failed code exchange for the browser.
func exchangeFailure(err error) failure {
	var exchangeErr *tokensource.AuthExchangeError
	if !errors.As(err, &exchangeErr) {
		return failure{
			Error:       "exchange_failed",
			Description: "The authorization code could not be exchanged for a token.",
			Hint:        "Check the terminal for details.",
		}
	}

	switch exchangeErr.ErrorCode {
	case "invalid_grant":
		return failure{
			Error:       "invalid_grant",
			Description: "The supplied 'code' is invalid.",
			Hint:        "Make sure that the authorization 'code' supplied is correct.",
		}
	case "invalid_client":
		return failure{
			Error:       "invalid_client",
			Description: "Client authentication failed.",
			Hint:        "Client secret could be incorrect.",
		}
	default:
		return failure{
			Error:       exchangeErr.ErrorCode,
			Description: "The authorization code could not be exchanged for a token.",
			Hint:        "Check the terminal for details.",
		}
	}
}

func writeHTML(ctx context.Context, w http.ResponseWriter, page *template.Template, data any, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Execute(w, data); err != nil {
		slog.ErrorContext(ctx, "failed to render page", "error", err)
	}
}
