package cmd

import (
	"context"
	"fmt"
	"log"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bridgelog-cli/internal/client"
	"bridgelog-cli/internal/config"
)

// Variables to hold flag values
var (
	loginUser string
	loginPass string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the Eagle Eye Networks VMS",
	Long: `Performs the two-step EEN login (authenticate + authorize) and saves
the resulting session locally for future commands.

Example:
  bridgelog-cli login --username operator@example.com`,
	Run: func(cmd *cobra.Command, args []string) {
		// Prompt for the password when not passed as a flag, without echo.
		if loginPass == "" {
			fmt.Printf("Enter password for %s: ", loginUser)
			raw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				log.Fatalf("Fatal: could not read password: %v", err)
			}
			loginPass = string(raw)
		}

		fmt.Printf("Attempting login: %s...\n", loginUser)

		api := client.New(client.ClientConfig{})

		began := time.Now()
		sess, err := api.Authenticate(context.Background(), loginUser, loginPass)
		if err != nil {
			log.Fatalf("Fatal: Login failed: %v", err)
		}

		fmt.Printf("Completed authentication process: %.2f secs\n", time.Since(began).Seconds())
		fmt.Printf("Authorized against %s\n", sess.BaseURL)

		// Persist session to the config file for subsequent commands.
		if err := config.SaveSession(sess); err != nil {
			log.Fatalf("Failed to save configuration file: %v", err)
		}

		fmt.Println("Session saved. You can now run commands like './bridgelog-cli device info'.")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	// Define Flags
	// We use local flags because these are specific only to the login action.
	loginCmd.Flags().StringVarP(&loginUser, "username", "u", "", "VMS account email")
	loginCmd.Flags().StringVarP(&loginPass, "password", "p", "", "VMS account password (prompted when omitted)")

	_ = loginCmd.MarkFlagRequired("username")
}
