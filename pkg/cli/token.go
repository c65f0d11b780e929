package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/cli/config"
	"github.com/papyrus-lab/papyrus/pkg/usecase"
	"github.com/papyrus-lab/papyrus/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdToken() *cli.Command {
	var sub string
	var email string
	var name string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "sub",
			Usage:       "Subject (user ID) of the token",
			Required:    true,
			Sources:     cli.EnvVars("PAPYRUS_TOKEN_SUB"),
			Destination: &sub,
		},
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Email address of the user",
			Sources:     cli.EnvVars("PAPYRUS_TOKEN_EMAIL"),
			Destination: &email,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Display name of the user",
			Sources:     cli.EnvVars("PAPYRUS_TOKEN_NAME"),
			Destination: &name,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "token",
		Usage: "Issue a session token for a user",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			authUC := usecase.NewAuthUseCase(repo)
			token, err := authUC.Issue(ctx, sub, email, name)
			if err != nil {
				return goerr.Wrap(err, "failed to issue token")
			}

			// The secret is printed once and never logged.
			logging.Default().Info("Issued session token",
				"token_id", token.ID,
				"sub", token.Sub,
				"expires_at", token.ExpiresAt,
			)
			fmt.Printf("token_id: %s\n", token.ID)
			fmt.Printf("token_secret: %s\n", token.Secret)
			return nil
		},
	}
}
