package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quansight/conda-store-operator/internal/cli/pretty_print"
	"github.com/quansight/conda-store-operator/internal/utils"
)

func NewRootCmd() *cobra.Command {
	cobra.OnInitialize(initConfig)

	// rootCmd represents the base command when called without any subcommands
	cmdRoot := cobra.Command{
		Use:   "conda-store-operator",
		Short: "conda-store-operator provisions conda-store NFS shares and publishes their outputs",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.InitObservability()
		},
	}

	cmdRoot.AddCommand(newVersionCmd())
	errPrefix := pretty_print.FormatWithOptions(pretty_print.ErrLvl, "Error:", []string{}, pretty_print.WithoutNewline())
	cmdRoot.SetErrPrefix(errPrefix)

	return &cmdRoot
}

func NewServerRootCmd() *cobra.Command {
	cmdRoot := NewRootCmd()
	addServerFlags(cmdRoot)
	cmdRoot.Use = "conda-store-operator [--config|-c <string>] [--debug]"
	return cmdRoot
}
