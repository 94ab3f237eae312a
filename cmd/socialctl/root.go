package main

import (
	"github.com/spf13/cobra"

	"social_server/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Region   string
	Endpoint string
	Table    string
}

// NewRootCommand creates the root command of socialctl. Flag defaults come
// from the environment so the CLI and the server agree on the table.
func NewRootCommand() *cobra.Command {
	env := config.FromEnv()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "socialctl",
		Short: "Operate the social server",
		Long:  "Bootstrap the single DynamoDB table and run the social HTTP server.",
	}

	cmd.PersistentFlags().StringVar(&opts.Region, "region", env.AWSRegion, "AWS region")
	cmd.PersistentFlags().StringVar(&opts.Endpoint, "endpoint", env.DynamoDBEndpoint, "DynamoDB endpoint override, e.g. http://localhost:8000")
	cmd.PersistentFlags().StringVar(&opts.Table, "table", env.TableName, "table name")

	cmd.AddCommand(NewCreateTableCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}
