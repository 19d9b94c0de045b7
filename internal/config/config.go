package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"bridgelog-cli/pkg/models"
)

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".bridgelog-cli" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bridgelog-cli")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		// Config loaded successfully
	}
}

// SaveSession persists the authenticated session so subsequent commands can
// reuse it without logging in again.
func SaveSession(sess models.Session) error {
	viper.Set("auth_key", sess.AuthKey)
	viper.Set("base_url", sess.BaseURL)
	viper.Set("username", sess.Username)

	// Ensure the file exists before writing
	if err := viper.WriteConfig(); err != nil {
		// If file doesn't exist, create it
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return viper.SafeWriteConfig()
		}
		// If it exists but failed to write, try writing to default path
		home, _ := os.UserHomeDir()
		path := filepath.Join(home, ".bridgelog-cli.yaml")
		return viper.WriteConfigAs(path)
	}
	return nil
}

// LoadSession rebuilds the session saved by a previous login. The second
// return value is false when there is no usable saved session.
func LoadSession() (models.Session, bool) {
	sess := models.Session{
		AuthKey:  viper.GetString("auth_key"),
		BaseURL:  viper.GetString("base_url"),
		Username: viper.GetString("username"),
	}
	if sess.AuthKey == "" || sess.BaseURL == "" {
		return models.Session{}, false
	}
	return sess, true
}
