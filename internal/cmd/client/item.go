package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// NewItemCommand constructs the `item` command group: the worker protocol
// from a terminal.
func NewItemCommand(baseURL BaseURLFunc) *cobra.Command {
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "Worker operations on a project's items",
		Long: `Worker operations on a project's items.

Item Lifecycle:
  pending → [get] → leased → [done] → completed
                      ↑ [heartbeat]

Commands:
  get          Claim the next item
  heartbeat    Report liveness for a leased item
  done         Complete a leased item with its byte count
  leaderboard  Per-user totals for a project
  user-stats   Totals for one user`,
	}
	itemCmd.PersistentFlags().StringP("project", "p", "", "Project name")
	_ = itemCmd.MarkPersistentFlagRequired("project")

	itemCmd.AddCommand(
		newItemGetCommand(baseURL),
		newItemHeartbeatCommand(baseURL),
		newItemDoneCommand(baseURL),
		newItemLeaderboardCommand(baseURL),
		newItemUserStatsCommand(baseURL),
	)
	return itemCmd
}

func projectPath(cmd *cobra.Command, suffix string) (string, error) {
	name, _ := cmd.Flags().GetString("project")
	if name == "" {
		return "", fmt.Errorf("--project is required")
	}
	return "/" + url.PathEscape(name) + suffix, nil
}

// newItemGetCommand constructs the `item get` subcommand.
func newItemGetCommand(baseURL BaseURLFunc) *cobra.Command {
	getCmd := &cobra.Command{
		Use:     "get",
		Aliases: []string{"claim"},
		Short:   "Claim the next item",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := projectPath(cmd, "/item/get")
			if err != nil {
				return err
			}
			username, _ := cmd.Flags().GetString("username")
			body, err := call(cmd.Context(), http.MethodGet, baseURL(), path, url.Values{"username": {username}}, "")
			if err != nil {
				return err
			}
			return printBody(cmd.OutOrStdout(), body)
		},
	}
	getCmd.Flags().StringP("username", "u", "", "Worker username")
	_ = getCmd.MarkFlagRequired("username")
	return getCmd
}

// newItemHeartbeatCommand constructs the `item heartbeat` subcommand.
func newItemHeartbeatCommand(baseURL BaseURLFunc) *cobra.Command {
	hbCmd := &cobra.Command{
		Use:   "heartbeat",
		Short: "Report liveness for a leased item",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := projectPath(cmd, "/item/heartbeat")
			if err != nil {
				return err
			}
			id, _ := cmd.Flags().GetUint64("id")
			q := url.Values{"id": {strconv.FormatUint(id, 10)}}
			body, err := call(cmd.Context(), http.MethodGet, baseURL(), path, q, "")
			if err != nil {
				return err
			}
			return printBody(cmd.OutOrStdout(), body)
		},
	}
	hbCmd.Flags().Uint64("id", 0, "Item id")
	_ = hbCmd.MarkFlagRequired("id")
	return hbCmd
}

// newItemDoneCommand constructs the `item done` subcommand.
func newItemDoneCommand(baseURL BaseURLFunc) *cobra.Command {
	doneCmd := &cobra.Command{
		Use:     "done",
		Aliases: []string{"complete"},
		Short:   "Complete a leased item",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := projectPath(cmd, "/item/done")
			if err != nil {
				return err
			}
			id, _ := cmd.Flags().GetUint64("id")
			size, _ := cmd.Flags().GetUint64("size")
			q := url.Values{
				"id":   {strconv.FormatUint(id, 10)},
				"size": {strconv.FormatUint(size, 10)},
			}
			body, err := call(cmd.Context(), http.MethodGet, baseURL(), path, q, "")
			if err != nil {
				return err
			}
			return printBody(cmd.OutOrStdout(), body)
		},
	}
	doneCmd.Flags().Uint64("id", 0, "Item id")
	doneCmd.Flags().Uint64("size", 0, "Bytes produced for the item")
	_ = doneCmd.MarkFlagRequired("id")
	return doneCmd
}

// newItemLeaderboardCommand constructs the `item leaderboard` subcommand.
func newItemLeaderboardCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show per-user totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := projectPath(cmd, "/api/leaderboard")
			if err != nil {
				return err
			}
			body, err := call(cmd.Context(), http.MethodGet, baseURL(), path, nil, "")
			if err != nil {
				return err
			}
			return printBody(cmd.OutOrStdout(), body)
		},
	}
}

// newItemUserStatsCommand constructs the `item user-stats` subcommand.
func newItemUserStatsCommand(baseURL BaseURLFunc) *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "user-stats",
		Short: "Show totals for one user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := projectPath(cmd, "/api/user_stats")
			if err != nil {
				return err
			}
			username, _ := cmd.Flags().GetString("username")
			body, err := call(cmd.Context(), http.MethodGet, baseURL(), path, url.Values{"username": {username}}, "")
			if err != nil {
				return err
			}
			return printBody(cmd.OutOrStdout(), body)
		},
	}
	statsCmd.Flags().StringP("username", "u", "", "Username")
	_ = statsCmd.MarkFlagRequired("username")
	return statsCmd
}
