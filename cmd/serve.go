package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aivahq/dupwatch/internal/config"
	"github.com/aivahq/dupwatch/internal/server"
)

func serveCmd() *cobra.Command {
	var httpPort string

	command := &cobra.Command{
		Use:   "serve",
		Short: "run the detection server",
		Run: func(cmd *cobra.Command, args []string) {
			if httpPort == "" {
				httpPort = config.LoadConfig().HTTPPort
			}
			server.NewServer(httpPort).Start()
		},
	}

	command.Flags().StringVarP(&httpPort, "http-port", "p", "", "http port")

	return command
}
