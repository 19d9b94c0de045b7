package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bridgelog-cli/internal/client"
	"bridgelog-cli/internal/config"
	"bridgelog-cli/pkg/models"
)

var deviceESN string

// setupClient ensures a saved session exists and builds the API client.
func setupClient() (*client.EENClient, models.Session) {
	sess, ok := config.LoadSession()
	if !ok {
		fmt.Println("Error: Not logged in. Please run 'bridgelog-cli login' first.")
		os.Exit(1)
	}
	return client.New(client.ClientConfig{}), sess
}

// exitWithError prints the failure and ends the run non-zero. Auth errors
// already carry the VPN hint in their message.
func exitWithError(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}

// Parent Command
var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Inspect managed devices",
	Long:  `Look up bridge metadata and archiver topology by ESN.`,
}

// Info Command
var deviceInfoCmd = &cobra.Command{
	Use:     "info",
	Short:   "Show archiver topology for a bridge",
	Example: `  bridgelog-cli device info --esn 100bbc9c`,
	Run: func(cmd *cobra.Command, args []string) {
		api, sess := setupClient()

		device, err := api.GetDeviceInfo(context.Background(), sess, deviceESN)
		if err != nil {
			exitWithError(err)
		}

		// --- JSON OUTPUT ---
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(device); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}
		// -------------------

		fmt.Printf("ESN:     %s\n", device.ESN)
		fmt.Printf("Type:    %s\n", device.Type)
		fmt.Printf("Name:    %s\n", device.Name)
		fmt.Printf("Cluster: %s\n\n", device.Cluster)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ARCHIVER\tIP\tSTATE")
		fmt.Fprintln(w, "--------\t--\t-----")

		for _, a := range device.Archivers {
			fmt.Fprintf(w, "%s\t%s\t%s\n", a, device.DiskIPs[a], device.ArchiverStates[a])
		}
		w.Flush()
	},
}

func init() {
	// Register Parent
	rootCmd.AddCommand(deviceCmd)

	// Register Subcommands
	deviceCmd.AddCommand(deviceInfoCmd)

	deviceInfoCmd.Flags().StringVar(&deviceESN, "esn", "", "Bridge ESN to look up")
	_ = deviceInfoCmd.MarkFlagRequired("esn")
}
