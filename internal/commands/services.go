// internal/commands/services.go
package faceoff

import (
	"fmt"

	"github.com/mwiater/faceoff/internal/discovery"
	"github.com/spf13/cobra"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Probe every configured service and list which are reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not initialized")
		}

		infos := discovery.NewProber().Discover(cmd.Context(), cfg)
		for _, info := range infos {
			fmt.Println(discovery.Describe(info))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
}
