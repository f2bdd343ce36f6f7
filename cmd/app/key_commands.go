package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/queryowl/cmd/app/commands"
	"github.com/allisson/queryowl/internal/app"
	"github.com/allisson/queryowl/internal/config"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func valueFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:     "value",
		Aliases:  []string{"v"},
		Required: true,
		Usage:    usage,
	}
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "init-key",
			Usage: "Load the master key from the key store, generating it on first use",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				masterKeyUseCase, err := container.MasterKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunInitKey(
					ctx,
					masterKeyUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "create-master-key",
			Usage: "Print a new encoded master key without storing it",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				masterKeyUseCase, err := container.MasterKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateMasterKey(
					ctx,
					masterKeyUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.KMSKeyURI != "",
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "encrypt",
			Usage: "Encrypt a value with the stored master key",
			Flags: []cli.Flag{valueFlag("Plaintext to encrypt")},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				masterKeyUseCase, err := container.MasterKeyUseCase()
				if err != nil {
					return err
				}
				cipher, err := container.Cipher()
				if err != nil {
					return err
				}

				return commands.RunEncrypt(
					ctx,
					masterKeyUseCase,
					cipher,
					commands.DefaultIO().Writer,
					cmd.String("value"),
				)
			},
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt an envelope with the stored master key",
			Flags: []cli.Flag{valueFlag("Envelope to decrypt; plaintext is echoed unchanged")},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				masterKeyUseCase, err := container.MasterKeyUseCase()
				if err != nil {
					return err
				}
				cipher, err := container.Cipher()
				if err != nil {
					return err
				}

				return commands.RunDecrypt(
					ctx,
					masterKeyUseCase,
					cipher,
					commands.DefaultIO().Writer,
					cmd.String("value"),
				)
			},
		},
		{
			Name:  "classify",
			Usage: "Report whether a value looks like an encrypted envelope",
			Flags: []cli.Flag{valueFlag("Value to classify"), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunClassify(
					commands.DefaultIO().Writer,
					cmd.String("value"),
					cmd.String("format"),
				)
			},
		},
	}
}
