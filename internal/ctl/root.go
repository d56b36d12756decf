package ctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// BuildRootCmd constructs the panelxctl command tree.
func BuildRootCmd() *cobra.Command {
	var addr string

	root := &cobra.Command{
		Use:           "panelxctl",
		Short:         "Client for a running panelxd daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaultAddr := "http://localhost:8000"
	if v := os.Getenv("PANELXD_URL"); v != "" {
		defaultAddr = v
	}
	root.PersistentFlags().StringVar(&addr, "addr", defaultAddr, "Base URL of the daemon")

	client := func() *Client { return NewClient(addr) }

	root.AddCommand(&cobra.Command{
		Use:   "health",
		Short: "Check /healthz and /readyz",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client()
			if err := c.Health(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "healthy")
			if err := c.Ready(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "not ready")
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ready")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print daemon status JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := client().Status()
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(out)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "models",
		Short: "List pipelines and models",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := client().Models()
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(out)
			return nil
		},
	})

	var chatUser string
	chatCmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send one chat message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := client().Chat(args[0], chatUser)
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(out)
			return nil
		},
	}
	chatCmd.Flags().StringVar(&chatUser, "user", "", "User id for credit accounting")
	root.AddCommand(chatCmd)

	var storyGenre, storyUser string
	storyCmd := &cobra.Command{
		Use:   "story <prompt>",
		Short: "Generate a story, streaming NDJSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client().Story(args[0], storyGenre, storyUser, cmd.OutOrStdout())
		},
	}
	storyCmd.Flags().StringVar(&storyGenre, "genre", "", "Story genre (default fantasy)")
	storyCmd.Flags().StringVar(&storyUser, "user", "", "User id for credit accounting")
	root.AddCommand(storyCmd)

	var imageStyle, imageUser string
	imageCmd := &cobra.Command{
		Use:   "image <prompt>",
		Short: "Generate one panel image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := client().Image(args[0], imageStyle, imageUser)
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(out)
			return nil
		},
	}
	imageCmd.Flags().StringVar(&imageStyle, "style", "", "Image style hint")
	imageCmd.Flags().StringVar(&imageUser, "user", "", "User id for credit accounting")
	root.AddCommand(imageCmd)

	creditsCmd := &cobra.Command{Use: "credits", Short: "Credit account operations"}
	creditsCmd.AddCommand(&cobra.Command{
		Use:   "balance <uid>",
		Short: "Show a user's credit balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := client().CreditsBalance(args[0])
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(out)
			return nil
		},
	})
	root.AddCommand(creditsCmd)

	root.AddCommand(&cobra.Command{
		Use:   "series",
		Short: "List published series",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := client().SeriesList()
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(out)
			return nil
		},
	})

	return root
}
