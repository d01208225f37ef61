package client

import (
	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewRoot constructs a root Cobra command for the tracker client.
// It registers the item and project command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "tracker",
		Short: "Tracker client commands",
	}
	root.AddCommand(NewItemCommand(baseURL))
	root.AddCommand(NewProjectCommand(baseURL))
	return root
}
