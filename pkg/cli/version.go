package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rimetools/udbclean/pkg/buildinfo"
)

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", buildinfo.Name, buildinfo.Version)
		},
	}

	RootCmd.AddCommand(cmd)
}
