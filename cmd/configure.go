package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/mail-blast/internal/config"
	"github.com/ryan-gang/mail-blast/internal/util"
)

func init() {
	rootCmd.AddCommand(configureCmd)
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure mail-blast settings",
	Long: `Configure the mail provider, the sender, the default campaign and the
daemon schedule. Secrets are stored encrypted.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		if _, err := os.Stat(configPath); err == nil {
			util.CyanBold.Printf("A configuration already exists at %s\n", configPath)
			util.Cyan.Printf("Replace it? (y/N) : ")
			if !strings.EqualFold(util.ScanlineTrim(), "y") {
				return
			}
		}

		util.CyanBold.Println("Creating new configuration...")
		cfg, err := config.CreateConfig()
		if err != nil {
			util.LogError(util.ConfigError, "creating configuration", err)
			os.Exit(1)
		}
		config.SetDefaults(cfg, filepath.Dir(configPath))
		if err := config.Validate(cfg); err != nil {
			util.LogError(util.ValidationError, "checking configuration", err)
			os.Exit(1)
		}
		if err := config.Save(*cfg, configPath); err != nil {
			util.LogError(util.ConfigError, "saving configuration", err)
			os.Exit(1)
		}
		util.Green.Printf("Configuration saved to %s\n", configPath)

		util.CyanBold.Println("\nNext steps:")
		if cfg.Provider == "gmail" {
			util.Cyan.Println("- Run 'mail-blast auth' to authorize your Gmail account")
		}
		util.Cyan.Println("- Run 'mail-blast preview' to check the message and recipients")
		util.Cyan.Println("- Run 'mail-blast send' to send the campaign")
		if cfg.DaemonEnabled {
			util.Cyan.Println("- Run 'mail-blast daemon start' to keep sending in the background")
		}
	},
}
