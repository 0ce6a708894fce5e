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

var identifierCmd = &cobra.Command{
	Use:   "identifier",
	Short: "watchlist commands",
}

func init() {
	rootCmd.AddCommand(identifierCmd)
	identifierCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	identifierCmd.AddCommand(addIdentifierCmd())
	identifierCmd.AddCommand(listIdentifiersCmd())
	identifierCmd.AddCommand(removeIdentifierCmd())
}

func addIdentifierCmd() *cobra.Command {
	var identifier string
	var notes string

	command := &cobra.Command{
		Use:     "add",
		Short:   "add an identifier to the watchlist",
		Example: "dupwatch identifier add -i 9841234567 -n 'esewa merchant'",
		Run: func(cmd *cobra.Command, args []string) {
			if identifier == "" {
				color.Red("missing: --identifier")
				return
			}

			client := dupwatch.NewClient(serverContext())
			rec, err := client.AddIdentifier(context.Background(), identifier, notes)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("identifier added with id: %d (%s)", rec.ID, rec.IdentifierType)
		},
	}

	command.Flags().StringVarP(&identifier, "identifier", "i", "", "identifier value (required)")
	command.Flags().StringVarP(&notes, "notes", "n", "", "notes")
	bindServerFlag(command)

	command.Flags().SortFlags = false

	return command
}

func listIdentifiersCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list watched identifiers",
		Run: func(cmd *cobra.Command, args []string) {
			client := dupwatch.NewClient(serverContext())
			recs, err := client.ListIdentifiers(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Identifier", "Type", "Notes", "Created"})
			for _, rec := range recs {
				table.Append([]string{
					strconv.FormatUint(uint64(rec.ID), 10),
					rec.Identifier,
					rec.IdentifierType,
					rec.Notes,
					rec.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			table.Render()
		},
	}

	bindServerFlag(command)

	return command
}

func removeIdentifierCmd() *cobra.Command {
	var id uint

	command := &cobra.Command{
		Use:     "remove",
		Short:   "remove an identifier from the watchlist",
		Example: "dupwatch identifier remove -d 123",
		Run: func(cmd *cobra.Command, args []string) {
			if id == 0 {
				color.Red("missing: --id")
				return
			}

			client := dupwatch.NewClient(serverContext())
			if err := client.RemoveIdentifier(context.Background(), id); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("identifier %d removed", id)
		},
	}

	command.Flags().UintVarP(&id, "id", "d", 0, "identifier id (required)")
	bindServerFlag(command)

	return command
}
