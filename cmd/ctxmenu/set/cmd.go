// Package setcmd implements the `ctxmenu set` command.
package setcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxmenu/cmd/ctxmenu/shared"
	"github.com/go-ports/ctxmenu/internal/menu"
	"github.com/go-ports/ctxmenu/internal/service"
)

// Command implements `ctxmenu set`.
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

// New creates the set command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "set <name>...",
		Short: "Update attributes of an existing entry (passing an empty value clears the attribute)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.on, "on", "", "Right-click target: folder, background, *, or an extension like .txt (required)")
	f.StringVar(&c.command, "command", "", "Shell command; empty clears it")
	f.StringVar(&c.icon, "icon", "", "Icon resource path; empty clears it")
	f.StringVar(&c.position, "position", "", "Menu position: Top or Bottom; empty clears it")
	f.StringVar(&c.separator, "separator", "none", "Separator lines: none, before, after, or both")
	f.BoolVar(&c.extended, "extended", false, "Modifier-key-only visibility")

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

	// Only flags the user actually passed are applied, so `set` can clear one
	// attribute without disturbing the others.
	var upd service.AttrUpdate
	flags := cmd.Flags()
	if flags.Changed("command") {
		upd.Command = &c.command
	}
	if flags.Changed("icon") {
		upd.Icon = &c.icon
	}
	if flags.Changed("position") {
		p := menu.Position(c.position)
		upd.Position = &p
	}
	if flags.Changed("separator") {
		sep, err := menu.ParseSeparator(c.separator)
		if err != nil {
			return err
		}
		upd.Separator = &sep
	}
	if flags.Changed("extended") {
		upd.Extended = &c.extended
	}

	if upd == (service.AttrUpdate{}) {
		return fmt.Errorf("nothing to set: pass at least one attribute flag")
	}

	svc, err := service.New(c.ctx.Home)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Set(a, args, upd); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %q on %s\n", strings.Join(args, " > "), a)
	return nil
}
