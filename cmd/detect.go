package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	dupwatch "github.com/aivahq/dupwatch"
)

func init() {
	rootCmd.AddCommand(detectCmd())
}

func detectCmd() *cobra.Command {
	var text string
	var candidates []string
	var groupID string

	command := &cobra.Command{
		Use:     "detect",
		Short:   "submit a message or candidates for duplicate detection",
		Example: "dupwatch detect -m \"paid to 1234567890123456\"",
		Run: func(cmd *cobra.Command, args []string) {
			if text == "" && len(candidates) == 0 {
				color.Red("missing: --message or --candidate")
				return
			}

			client := dupwatch.NewClient(serverContext())
			results, err := client.Detect(context.Background(), dupwatch.DetectRequest{
				Text:       text,
				Candidates: candidates,
				GroupID:    groupID,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			if len(results) == 0 {
				logrus.Info("no identifier candidates found")
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Candidate", "Status", "Type"})
			for _, result := range results {
				identifierType := ""
				if result.Outcome != nil && result.Outcome.Record != nil {
					identifierType = result.Outcome.Record.IdentifierType
				}
				table.Append([]string{
					result.Candidate,
					strings.ToLower(result.Outcome.Status),
					identifierType,
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&text, "message", "m", "", "message text to scan for identifiers")
	command.Flags().StringSliceVarP(&candidates, "candidate", "c", nil, "explicit identifier candidates")
	command.Flags().StringVarP(&groupID, "group", "g", "", "source group id")
	bindServerFlag(command)

	return command
}
