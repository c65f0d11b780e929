package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/papyrus-lab/papyrus/pkg/cli/config"
	httpctrl "github.com/papyrus-lab/papyrus/pkg/controller/http"
	"github.com/papyrus-lab/papyrus/pkg/repository/memory"
	"github.com/papyrus-lab/papyrus/pkg/service/enrich"
	"github.com/papyrus-lab/papyrus/pkg/usecase"
	"github.com/papyrus-lab/papyrus/pkg/utils/logging"
	"github.com/papyrus-lab/papyrus/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var noAuthnUID string
	var maxTags int
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PAPYRUS_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "no-authn",
			Usage:       "Skip authentication and run as the specified user ID (development only). Example: --no-authn=dev-user",
			Category:    "Authentication",
			Sources:     cli.EnvVars("PAPYRUS_NO_AUTHN"),
			Destination: &noAuthnUID,
		},
		&cli.IntFlag{
			Name:        "max-tags",
			Usage:       "Maximum number of tags to generate per note",
			Value:       enrich.DefaultMaxTags,
			Sources:     cli.EnvVars("PAPYRUS_MAX_TAGS"),
			Destination: &maxTags,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Remote repository per the configured backend
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			// Local fallback store, always in-memory. It absorbs writes
			// during remote outages and holds drafts.
			local := memory.New()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			if llmClient != nil {
				logging.Default().Info("Gemini enrichment enabled")
			} else {
				logging.Default().Info("Gemini not configured, using heuristic enrichment")
			}

			engine := enrich.New(llmClient, enrich.WithMaxTags(maxTags))

			ucOpts := []usecase.Option{}
			if noAuthnUID != "" {
				logging.Default().Warn("Running in no-authn mode (development only)", "user_id", noAuthnUID)
				authUC := usecase.NewNoAuthnUseCase(noAuthnUID, noAuthnUID+"@localhost", noAuthnUID)
				ucOpts = append(ucOpts, usecase.WithAuth(authUC))
			}

			uc := usecase.New(repo, local, engine, ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
