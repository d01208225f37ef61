package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// NewProjectCommand constructs the `project` command group for operators.
func NewProjectCommand(baseURL BaseURLFunc) *cobra.Command {
	projectCmd := &cobra.Command{Use: "project", Short: "Project status and administration"}
	projectCmd.AddCommand(
		newProjectListCommand(baseURL),
		newProjectStatusCommand(baseURL),
		newProjectRankingCommand(baseURL),
		newProjectPauseCommand(baseURL, true),
		newProjectPauseCommand(baseURL, false),
	)
	return projectCmd
}

func newProjectListCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects with queue depth",
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := call(cmd.Context(), http.MethodGet, baseURL(), "/v1/projects", nil, "")
			if err != nil {
				return err
			}
			return printBody(cmd.OutOrStdout(), body)
		},
	}
}

func newProjectStatusCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status NAME",
		Short: "Show one project's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := call(cmd.Context(), http.MethodGet, baseURL(), "/v1/projects/"+url.PathEscape(args[0]), nil, "")
			if err != nil {
				return err
			}
			return printBody(cmd.OutOrStdout(), body)
		},
	}
}

func newProjectRankingCommand(baseURL BaseURLFunc) *cobra.Command {
	rankingCmd := &cobra.Command{
		Use:   "ranking NAME",
		Short: "Show the leaderboard ordered by items then bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			var q url.Values
			if limit > 0 {
				q = url.Values{"limit": {strconv.Itoa(limit)}}
			}
			path := "/v1/projects/" + url.PathEscape(args[0]) + "/leaderboard"
			body, err := call(cmd.Context(), http.MethodGet, baseURL(), path, q, "")
			if err != nil {
				return err
			}
			return printBody(cmd.OutOrStdout(), body)
		},
	}
	rankingCmd.Flags().Int("limit", 0, "Max rows (0 = all)")
	return rankingCmd
}

// newProjectPauseCommand constructs `project pause` or `project resume`.
func newProjectPauseCommand(baseURL BaseURLFunc, pause bool) *cobra.Command {
	verb := "resume"
	if pause {
		verb = "pause"
	}
	pauseCmd := &cobra.Command{
		Use:   verb + " NAME",
		Short: fmt.Sprintf("%s a project (requires the admin token)", verb),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, _ := cmd.Flags().GetString("token")
			if token == "" {
				return fmt.Errorf("admin token required: pass --token or set TRACKER_ADMIN_TOKEN")
			}
			path := "/v1/projects/" + url.PathEscape(args[0]) + "/" + verb
			body, err := call(cmd.Context(), http.MethodPost, baseURL(), path, nil, token)
			if err != nil {
				return err
			}
			return printBody(cmd.OutOrStdout(), body)
		},
	}
	pauseCmd.Flags().String("token", adminTokenFromEnv(), "Admin token (default $TRACKER_ADMIN_TOKEN)")
	return pauseCmd
}
