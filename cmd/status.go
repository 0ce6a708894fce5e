package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	dupwatch "github.com/aivahq/dupwatch"
)

func init() {
	rootCmd.AddCommand(statusCmd())
}

func statusCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "status",
		Short:   "show server counters",
		Example: "dupwatch status",
		Run: func(cmd *cobra.Command, args []string) {
			client := dupwatch.NewClient(serverContext())
			status, err := client.Status(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Tracked", "Duplicates", "Pending Alerts", "Uptime"})
			table.Append([]string{
				strconv.FormatInt(status.Tracked, 10),
				strconv.FormatInt(status.Duplicates, 10),
				strconv.FormatInt(status.PendingAlerts, 10),
				status.Uptime,
			})
			table.Render()
		},
	}

	bindServerFlag(command)

	return command
}
