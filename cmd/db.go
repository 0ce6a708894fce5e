package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aivahq/dupwatch/internal/config"
	"github.com/aivahq/dupwatch/internal/model"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
}

func Migrate() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		Run: func(cmd *cobra.Command, args []string) {
			db, err := config.GetDb(config.LoadConfig())
			if err != nil {
				panic(err)
			}
			if err := model.Migrate(db); err != nil {
				panic(err)
			}
		},
	}

	return command
}
