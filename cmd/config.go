package cmd

import (
	"fmt"

	"github.com/ppartarr/reel/config"
	"github.com/ppartarr/reel/util"
	"github.com/spf13/cobra"
)

func init() {
	cmdRoot.AddCommand(cmdConfig())
}

func configPath(cmd *cobra.Command) string {
	return util.Fallback(util.ErrWrap("")(cmd.Flags().GetString("config")), config.DefaultPath())
}

func cmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Inspect or change settings",
		Annotations: map[string]string{annotationBare: "true"},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:         "show",
			Short:       "Print the effective settings",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{annotationBare: "true"},
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), settingsTable(cfg.Settings()))
				return nil
			},
		},
		&cobra.Command{
			Use:         "path",
			Short:       "Print the configuration file location",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{annotationBare: "true"},
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), configPath(cmd))
			},
		},
		&cobra.Command{
			Use:         "set <key> <value>",
			Short:       "Change a setting, e.g. spotify.client_id",
			Example:     "  reel config set library.path ~/Music/Reel\n  reel config set genius.enabled false",
			Args:        cobra.ExactArgs(2),
			Annotations: map[string]string{annotationBare: "true"},
			RunE: func(cmd *cobra.Command, args []string) error {
				path := configPath(cmd)
				cfg, err := config.Read(path)
				if err != nil {
					return err
				}
				if err := cfg.Set(args[0], args[1]); err != nil {
					return err
				}
				if err := cfg.Save(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s saved to %s\n", args[0], path)
				return nil
			},
		},
	)
	return cmd
}
