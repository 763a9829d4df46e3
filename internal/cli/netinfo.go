package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/rigup/internal/netinfo"
)

// netinfoCmd backs the unit's ExecStartPre diagnostic hook. Hidden: it is
// not part of the operator-facing surface.
var netinfoCmd = &cobra.Command{
	Use:    "netinfo",
	Short:  "Print host network identification",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), netinfo.Report(netinfo.InterfaceAddrs))
	},
}
