package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/frame-recognizer/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Serve frame recognition tools over the Model Context Protocol.

stdout carries the protocol stream; logs go to stderr. Configure the binary
as a stdio server in your MCP client.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.New(a.cfg, server.WithVersion(Version))
			if err != nil {
				return err
			}
			return srv.Run()
		},
	}
}
