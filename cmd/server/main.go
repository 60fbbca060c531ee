package main

import (
	"fmt"
	"os"

	"github.com/quansight/conda-store-operator/internal/cli/cmd"
)

func main() {
	cmdRoot := cmd.NewServerRootCmd()

	cmdRoot.AddCommand(serveCmd)
	cmdRoot.AddCommand(outputsCmd)

	err := cmdRoot.Execute()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
