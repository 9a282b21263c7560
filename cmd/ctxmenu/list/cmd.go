// Package listcmd implements the `ctxmenu list` command.
package listcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxmenu/cmd/ctxmenu/shared"
	"github.com/go-ports/ctxmenu/internal/menu"
	"github.com/go-ports/ctxmenu/internal/service"
)

// Command implements `ctxmenu list`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	on string
}

// New creates the list command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "list",
		Short: "List top-level context-menu entries for a target",
		RunE:  c.run,
	}

	c.cmd.Flags().StringVar(&c.on, "on", "", "Right-click target: folder, background, *, or an extension like .txt (required)")
	_ = c.cmd.MarkFlagRequired("on")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	a, err := menu.ParseActivation(c.on)
	if err != nil {
		return err
	}

	svc, err := service.New(c.ctx.Home)
	if err != nil {
		return err
	}
	defer svc.Close()

	infos, err := svc.List(a)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No entries on %s\n", a)
		return nil
	}

	for _, info := range infos {
		line := info.Name
		var notes []string
		if info.Command != "" {
			notes = append(notes, "command: "+info.Command)
		}
		if len(info.Children) > 0 {
			notes = append(notes, fmt.Sprintf("%d children", len(info.Children)))
		}
		if info.Extended {
			notes = append(notes, "extended")
		}
		if len(notes) > 0 {
			line += "  (" + strings.Join(notes, ", ") + ")"
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
