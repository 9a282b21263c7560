// Package rootcmd wires the root cobra.Command for the ctxmenu CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	classiccmd "github.com/go-ports/ctxmenu/cmd/ctxmenu/classic"
	configcmd "github.com/go-ports/ctxmenu/cmd/ctxmenu/config"
	createcmd "github.com/go-ports/ctxmenu/cmd/ctxmenu/create"
	deletecmd "github.com/go-ports/ctxmenu/cmd/ctxmenu/delete"
	initcmd "github.com/go-ports/ctxmenu/cmd/ctxmenu/init"
	listcmd "github.com/go-ports/ctxmenu/cmd/ctxmenu/list"
	mcpcmd "github.com/go-ports/ctxmenu/cmd/ctxmenu/mcp"
	renamecmd "github.com/go-ports/ctxmenu/cmd/ctxmenu/rename"
	setcmd "github.com/go-ports/ctxmenu/cmd/ctxmenu/set"
	"github.com/go-ports/ctxmenu/cmd/ctxmenu/shared"
	showcmd "github.com/go-ports/ctxmenu/cmd/ctxmenu/show"
)

// New creates and returns the root cobra.Command for the ctxmenu CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "ctxmenu",
		Short:         "ctxmenu — manage file-manager context-menu entries",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.Home, "home", "",
		"Override ctxmenu home directory (default: $CTXMENU_HOME env → persisted config → ~/.ctxmenu)",
	)

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		createcmd.New(ctx).Cmd(),
		listcmd.New(ctx).Cmd(),
		showcmd.New(ctx).Cmd(),
		setcmd.New(ctx).Cmd(),
		renamecmd.New(ctx).Cmd(),
		deletecmd.New(ctx).Cmd(),
		classiccmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
	)

	return root
}
