// Package initcmd implements the `ctxmenu init` command.
package initcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ctxmenu/cmd/ctxmenu/shared"
	"github.com/go-ports/ctxmenu/internal/service"
)

// Command implements `ctxmenu init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize the ctxmenu home and store database",
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	// Opening the service creates the home directory and the store schema.
	svc, err := service.New(c.ctx.Home)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer svc.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Store initialized at %s\n", svc.Home)
	return nil
}
