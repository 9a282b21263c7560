// Package createcmd implements the `ctxmenu create` command.
package createcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxmenu/cmd/ctxmenu/shared"
	"github.com/go-ports/ctxmenu/internal/menu"
	"github.com/go-ports/ctxmenu/internal/service"
)

// Command implements `ctxmenu create`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	on        string
	command   string
	icon      string
	position  string
	separator string
	extended  bool
}

// New creates the create command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "create <name>...",
		Short: "Create a context-menu entry (nested names create a child under an existing parent)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.on, "on", "", "Right-click target: folder, background, *, or an extension like .txt (required)")
	f.StringVar(&c.command, "command", "", "Shell command run when the entry is selected")
	f.StringVar(&c.icon, "icon", "", "Icon resource path displayed beside the entry")
	f.StringVar(&c.position, "position", "", "Menu position: Top or Bottom (top-level entries only)")
	f.StringVar(&c.separator, "separator", "", "Separator lines: before, after, or both")
	f.BoolVar(&c.extended, "extended", false, "Only show the entry while the modifier key is held")

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

	opts := menu.Options{
		Command:  c.command,
		Icon:     c.icon,
		Position: menu.Position(c.position),
		Extended: c.extended,
	}
	if c.separator != "" {
		if opts.Separator, err = menu.ParseSeparator(c.separator); err != nil {
			return err
		}
	}

	svc, err := service.New(c.ctx.Home)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Create(a, args, opts); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created entry %q on %s\n", strings.Join(args, " > "), a)
	return nil
}
