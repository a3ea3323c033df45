// Command fintrack-oauth-init authorizes a Google user account for the
// ledger mirror and stores the resulting token in GOOGLE_OAUTH_TOKEN_FILE.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/log"
	gsheet "fintrack/internal/sheets/google"

	"golang.org/x/oauth2"
)

func main() {
	_ = cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentSheets)

	cfg, err := gsheet.OAuthConfigFromEnv()
	if err != nil {
		cli.Fatal(logger, "Failed to load OAuth client", err)
	}
	if cfg == nil {
		cli.Fatal(logger, "Missing OAuth client", errors.New("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE"))
	}

	// The OAuth client must list http://localhost:<port>/callback as an
	// authorized redirect URI.
	redirectPort := os.Getenv("OAUTH_REDIRECT_PORT")
	if redirectPort == "" {
		redirectPort = "8085"
	}
	cfg.RedirectURL = "http://localhost:" + redirectPort + "/callback"

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	code, err := waitForCode(ctx, ":"+redirectPort, cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline))
	if err != nil {
		cli.Fatal(logger, "Authorization failed", err)
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		cli.Fatal(logger, "Token exchange failed", err)
	}
	outFile := gsheet.TokenFile()
	if err := gsheet.SaveToken(outFile, tok); err != nil {
		cli.Fatal(logger, "Failed to save token", err)
	}
	logger.Info("Saved token", "path", outFile)
}

// waitForCode serves the redirect callback on addr until it receives an
// authorization code or ctx ends.
func waitForCode(ctx context.Context, addr, authURL string) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", func(w http.ResponseWriter, r *http.Request) {
		if msg := r.URL.Query().Get("error"); msg != "" {
			http.Error(w, "OAuth error: "+msg, http.StatusBadRequest)
			errCh <- fmt.Errorf("oauth error: %s", msg)
			return
		}
		fmt.Fprintln(w, "You may close this window and return to the terminal.")
		select {
		case codeCh <- r.URL.Query().Get("code"):
		default:
		}
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	defer srv.Close()

	fmt.Printf("Open this URL to authorize:\n%s\n", authURL)

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization: %w", ctx.Err())
	}
}
