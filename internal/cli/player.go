package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerCreateCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerOnlineCmd())

	return cmd
}

func newPlayerCreateCmd() *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a player and remember it for later commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[0]}
			var result Player

			if err := client.Post(cmd.Context(), "/api/v1/players", req, &result); err != nil {
				return err
			}

			if !noSave {
				if err := cfg.SavePlayer(result.ID); err != nil {
					return fmt.Errorf("failed to save player: %w", err)
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not remember the new player")

	return cmd
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show a player, defaulting to the saved one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			} else {
				var err error
				if id, err = cfg.RequirePlayer(); err != nil {
					return err
				}
			}

			var result Player
			if err := client.Get(cmd.Context(), "/api/v1/players/"+url.PathEscape(id), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerOnlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "online",
		Short: "Show how many players are connected",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result OnlineCount

			if err := client.Get(cmd.Context(), "/api/v1/players/online/count", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
