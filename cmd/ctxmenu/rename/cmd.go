// Package renamecmd implements the `ctxmenu rename` command.
package renamecmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxmenu/cmd/ctxmenu/shared"
	"github.com/go-ports/ctxmenu/internal/menu"
	"github.com/go-ports/ctxmenu/internal/service"
)

// Command implements `ctxmenu rename`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	on string
	to string
}

// New creates the rename command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "rename <name>...",
		Short: "Rename a context-menu entry in place",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.on, "on", "", "Right-click target: folder, background, *, or an extension like .txt (required)")
	f.StringVar(&c.to, "to", "", "New entry name (required)")

	_ = c.cmd.MarkFlagRequired("on")
	_ = c.cmd.MarkFlagRequired("to")

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

	if err := svc.Rename(a, args, c.to); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Renamed entry %q to %q on %s\n", strings.Join(args, " > "), c.to, a)
	return nil
}
