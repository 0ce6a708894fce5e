package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	dupwatch "github.com/aivahq/dupwatch"
)

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "alert commands",
}

func init() {
	rootCmd.AddCommand(alertCmd)
	alertCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	alertCmd.AddCommand(listAlertsCmd())
	alertCmd.AddCommand(resolveAlertCmd())
}

func listAlertsCmd() *cobra.Command {
	var status string

	command := &cobra.Command{
		Use:     "list",
		Short:   "list duplicate alerts",
		Example: "dupwatch alert list -t pending",
		Run: func(cmd *cobra.Command, args []string) {
			client := dupwatch.NewClient(serverContext())
			alerts, err := client.ListAlerts(context.Background(), status)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Identifier", "Original", "Status", "Created"})
			for _, alert := range alerts {
				table.Append([]string{
					strconv.FormatUint(uint64(alert.ID), 10),
					alert.Identifier,
					strconv.FormatUint(uint64(alert.OriginalID), 10),
					alert.Status,
					alert.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&status, "status", "t", "", "filter by status (pending|resolved)")
	bindServerFlag(command)

	return command
}

func resolveAlertCmd() *cobra.Command {
	var id uint

	command := &cobra.Command{
		Use:     "resolve",
		Short:   "resolve a pending alert",
		Example: "dupwatch alert resolve -d 42",
		Run: func(cmd *cobra.Command, args []string) {
			if id == 0 {
				color.Red("missing: --id")
				return
			}

			client := dupwatch.NewClient(serverContext())
			if err := client.ResolveAlert(context.Background(), id); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("alert %d resolved", id)
		},
	}

	command.Flags().UintVarP(&id, "id", "d", 0, "alert id (required)")
	bindServerFlag(command)

	return command
}
