package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ryan-gang/mail-blast/internal/cmdutil"
)

func addCampaignFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("subject", "s", "", "Subject line, overrides the configured one")
	cmd.Flags().StringP("template", "t", "", "Path to the body template, overrides the configured one")
	cmd.Flags().StringP("recipients", "r", "", "Path to the recipients CSV, overrides the configured one")
	cmd.Flags().StringP("format", "f", "", "Body format: text, markdown or html")
}

func draftOptions(cmd *cobra.Command) cmdutil.DraftOptions {
	subject, _ := cmd.Flags().GetString("subject")
	template, _ := cmd.Flags().GetString("template")
	format, _ := cmd.Flags().GetString("format")
	return cmdutil.DraftOptions{Subject: subject, TemplatePath: template, Format: format}
}

func recipientsPath(cmd *cobra.Command, configured string) string {
	if path, _ := cmd.Flags().GetString("recipients"); path != "" {
		return path
	}
	return configured
}
