// Package deletecmd implements the `ctxmenu delete` command.
package deletecmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxmenu/cmd/ctxmenu/shared"
	"github.com/go-ports/ctxmenu/internal/menu"
	"github.com/go-ports/ctxmenu/internal/service"
)

// Command implements `ctxmenu delete`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	on string
}

// New creates the delete command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete a context-menu entry and all of its children",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.run,
	}

	c.cmd.Flags().StringVar(&c.on, "on", "", "Right-click target: folder, background, *, or an extension like .txt (required)")
	_ = c.cmd.MarkFlagRequired("on")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	a, err := menu.ParseActivation(c.on)
	if err != nil {
		return err
	}

	svc, err := service.New(c.ctx.Home)
	if err != nil {
		return err
	}
	defer svc.Close()

	deleted, err := svc.Delete(a, args)
	if err != nil {
		return err
	}

	name := strings.Join(args, " > ")
	if deleted {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %q on %s\n", name, a)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "No entry found for %q on %s\n", name, a)
	}
	return nil
}
