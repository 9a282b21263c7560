// Package classiccmd implements the `ctxmenu classic` command.
package classiccmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxmenu/cmd/ctxmenu/shared"
	"github.com/go-ports/ctxmenu/internal/service"
)

// Command implements `ctxmenu classic`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the classic command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "classic on|off",
		Short: "Enable or disable the legacy full context menu",
		Long: "Enable or disable the legacy full context menu.\n" +
			"The file manager must be restarted before the change takes effect.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE:      c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	var enabled bool
	switch args[0] {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		return fmt.Errorf("classic: want on or off, got %q", args[0])
	}

	svc, err := service.New(c.ctx.Home)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.SetClassicMenu(enabled); err != nil {
		return err
	}

	if enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "Classic context menu enabled (restart the file manager to apply)")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Classic context menu disabled (restart the file manager to apply)")
	}
	return nil
}
