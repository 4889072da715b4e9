package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/ankivn/internal/cli"
	"codeberg.org/snonux/ankivn/internal/server"
)

func newServeCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the card API for the browser extension",
		Long: `serve listens on a loopback address and adds cards for text selected
in the browser. POST /api/cards takes {"word": "...", "meaning": "...",
"custom": false} and answers with the notices to show.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, log, err := setup(flags)
			if err != nil {
				return err
			}
			if c.Pool.Empty() {
				log.Warn("No API key configured, every request will be refused until one is set")
			}

			srv := server.New(c.Pipeline, c.Anki, log)
			return srv.Run(cmd.Context(), c.Settings.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&flags.ServerAddr, "addr", flags.ServerAddr, "Loopback address to listen on")
	viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
