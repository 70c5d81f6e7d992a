package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gauravmohjay/admin/internal/config"
	"github.com/gauravmohjay/admin/internal/restapi"
)

var (
	cfgFile string
	cfg     *config.Config
	api     *restapi.Client
)

const (
	serverURLKey  = "server_url"
	apiBaseURLKey = "api_base_url"
	tokenKey      = "server_token"
	platformKey   = "platform_id"
	userIDKey     = "user_id"
	usernameKey   = "username"
	roleKey       = "role"
	archiveKey    = "archive_path"
)

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin console for scheduled meeting rooms",
	Long: `admin is a terminal console for the scheduled-meeting platform.
It joins live rooms over the realtime channel (chat, polls, raised
hands, recordings) and browses schedules, attendance, and recordings
through the REST API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = resolveConfig()
		if cfg.Server.APIBaseURL == "" {
			return fmt.Errorf("API base URL is required")
		}
		api = restapi.New(cfg.Server.APIBaseURL, cfg.Server.Token)
		return nil
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.admin.json)")
	rootCmd.PersistentFlags().String("server", "", "websocket URL of the room server")
	rootCmd.PersistentFlags().String("api", "", "base URL of the REST API")
	rootCmd.PersistentFlags().String("token", "", "bearer token for server authentication")
	rootCmd.PersistentFlags().String("platform", "", "platform ID to operate on")
	rootCmd.PersistentFlags().String("user-id", "", "user ID to join rooms as")
	rootCmd.PersistentFlags().String("username", "", "display name to join rooms as")
	rootCmd.PersistentFlags().String("role", "", "room role: host or participant")
	rootCmd.PersistentFlags().String("archive", "", "path of the local transcript database")

	_ = viper.BindPFlag(serverURLKey, rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag(apiBaseURLKey, rootCmd.PersistentFlags().Lookup("api"))
	_ = viper.BindPFlag(tokenKey, rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag(platformKey, rootCmd.PersistentFlags().Lookup("platform"))
	_ = viper.BindPFlag(userIDKey, rootCmd.PersistentFlags().Lookup("user-id"))
	_ = viper.BindPFlag(usernameKey, rootCmd.PersistentFlags().Lookup("username"))
	_ = viper.BindPFlag(roleKey, rootCmd.PersistentFlags().Lookup("role"))
	_ = viper.BindPFlag(archiveKey, rootCmd.PersistentFlags().Lookup("archive"))
}

// initConfig wires viper to the environment and an optional config
// file.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("json")
		viper.SetConfigName(".admin")
	}

	viper.SetEnvPrefix("ADMIN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("error reading config file: %v", err)
		}
	}
}

// resolveConfig starts from the file/env/defaults precedence stack and
// layers viper-resolved flag values on top, so flags beat everything.
func resolveConfig() *config.Config {
	c := config.LoadWithPrecedence(cfgFile)

	if v := viper.GetString(serverURLKey); v != "" {
		c.Server.URL = v
	}
	if v := viper.GetString(apiBaseURLKey); v != "" {
		c.Server.APIBaseURL = v
	}
	if v := viper.GetString(tokenKey); v != "" {
		c.Server.Token = v
	}
	if v := viper.GetString(platformKey); v != "" {
		c.Identity.PlatformID = v
	}
	if v := viper.GetString(userIDKey); v != "" {
		c.Identity.UserID = v
	}
	if v := viper.GetString(usernameKey); v != "" {
		c.Identity.Username = v
	}
	if v := viper.GetString(roleKey); v != "" {
		c.Identity.Role = v
	}
	if v := viper.GetString(archiveKey); v != "" {
		c.Archive.Path = v
	}

	return c
}
