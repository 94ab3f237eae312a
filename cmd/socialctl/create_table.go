package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"social_server/models"
	"social_server/services"
)

// NewCreateTableCommand creates the create-table command.
func NewCreateTableCommand(rootOpts *RootOptions) *cobra.Command {
	table := services.TableSpec{}
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "create-table",
		Short: "Create the table and its email index",
		Long: `Create the single table keyed by PK/SK with the email-index GSI used for login.

An existing table is reported and left untouched.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			awsCfg, err := services.LoadAWSConfig(cmd.Context(), rootOpts.Region)
			if err != nil {
				return err
			}
			client := services.InitializeDynamoDBClient(awsCfg, rootOpts.Endpoint)

			table.Name = rootOpts.Table
			err = services.CreateTable(cmd.Context(), client, table, wait)
			if errors.Is(err, services.ErrTableExists) {
				fmt.Fprintf(cmd.OutOrStdout(), "table %s already exists\n", table.Name)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "table %s created\n", table.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&table.EmailIndex, "email-index", models.DefaultEmailIndex, "name of the email GSI")
	cmd.Flags().Int64Var(&table.ReadCapacity, "read-capacity", 5, "provisioned read capacity units")
	cmd.Flags().Int64Var(&table.WriteCapacity, "write-capacity", 5, "provisioned write capacity units")
	cmd.Flags().BoolVar(&table.OnDemand, "on-demand", false, "use PAY_PER_REQUEST billing")
	cmd.Flags().DurationVar(&wait, "wait", 2*time.Minute, "how long to wait for the table to become active (0 to skip)")

	return cmd
}
