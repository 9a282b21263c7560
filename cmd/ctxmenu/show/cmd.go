// Package showcmd implements the `ctxmenu show` command.
package showcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxmenu/cmd/ctxmenu/shared"
	"github.com/go-ports/ctxmenu/internal/menu"
	"github.com/go-ports/ctxmenu/internal/service"
)

// Command implements `ctxmenu show`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	on string
}

// New creates the show command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "show <name>...",
		Short: "Show one context-menu entry and its attributes",
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

	info, err := svc.Show(a, args)
	if err != nil {
		return err
	}
	if info == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No entry found for %q on %s\n", strings.Join(args, " > "), a)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:      %s\n", info.Name)
	fmt.Fprintf(out, "Path:      %s\n", info.Path)
	fmt.Fprintf(out, "Command:   %s\n", orUnset(info.Command))
	fmt.Fprintf(out, "Icon:      %s\n", orUnset(info.Icon))
	fmt.Fprintf(out, "Position:  %s\n", orUnset(string(info.Position)))
	fmt.Fprintf(out, "Separator: %s\n", info.Separator)
	fmt.Fprintf(out, "Extended:  %t\n", info.Extended)
	if len(info.Children) > 0 {
		fmt.Fprintf(out, "Children:  %s\n", strings.Join(info.Children, ", "))
	}
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
