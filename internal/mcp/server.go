// Package mcp provides the stdio MCP server exposing context-menu management
// tools for coding agents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/ctxmenu/internal/buildinfo"
	"github.com/go-ports/ctxmenu/internal/menu"
	"github.com/go-ports/ctxmenu/internal/service"
)

const createDescription = `Create a context-menu entry. The entry appears when right-clicking the given target: "folder" for folders, "background" for a folder's empty space, "*" for any file, or an extension like ".txt". name_path addresses the entry: one element creates a top-level entry, more elements create a child under an existing parent (the parent gains a submenu). Creation fails if an entry already exists at that path.` //nolint:lll

const setDescription = `Update attributes of an existing context-menu entry. Only the attributes present in the call are touched; passing an empty string (or "none" for separator, false for extended) clears that attribute.` //nolint:lll

// NewServer creates and registers all menu tools on a new MCP server.
// It is intentionally separate from Serve so that tests and other callers can
// obtain a fully configured server without committing to the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("ctxmenu", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server, blocking until stdin closes.
func Serve(_ context.Context) error {
	svc, err := service.New("")
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	defer svc.Close()

	return mcpserver.ServeStdio(NewServer(svc))
}

// registerTools wires all menu tools into the server.
func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("menu_create",
		mcp.WithDescription(createDescription),
		mcp.WithString("target",
			mcp.Description(`Right-click target: "folder", "background", "*", or an extension like ".txt".`),
			mcp.Required(),
		),
		mcp.WithArray("name_path",
			mcp.Description("Entry names from the top-level entry down to the one to create."),
			mcp.WithStringItems(),
			mcp.Required(),
		),
		mcp.WithString("command",
			mcp.Description(`Shell command run on selection, e.g. cmd /s /k pushd "%V".`),
		),
		mcp.WithString("icon",
			mcp.Description("Icon resource path displayed beside the entry."),
		),
		mcp.WithString("position",
			mcp.Description("Menu position; only honored on top-level entries."),
			mcp.Enum("Top", "Bottom"),
		),
		mcp.WithString("separator",
			mcp.Description("Separator lines around the entry."),
			mcp.Enum("none", "before", "after", "both"),
		),
		mcp.WithBoolean("extended",
			mcp.Description("Only show the entry while the modifier key is held."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreate(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("menu_list",
		mcp.WithDescription("List all top-level context-menu entries for a target, with their attributes and child names."),
		mcp.WithString("target",
			mcp.Description(`Right-click target: "folder", "background", "*", or an extension like ".txt".`),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("menu_show",
		mcp.WithDescription("Show one context-menu entry with its attributes and child names."),
		mcp.WithString("target",
			mcp.Description(`Right-click target: "folder", "background", "*", or an extension like ".txt".`),
			mcp.Required(),
		),
		mcp.WithArray("name_path",
			mcp.Description("Entry names from the top-level entry down to the one to show."),
			mcp.WithStringItems(),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleShow(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("menu_set",
		mcp.WithDescription(setDescription),
		mcp.WithString("target",
			mcp.Description(`Right-click target: "folder", "background", "*", or an extension like ".txt".`),
			mcp.Required(),
		),
		mcp.WithArray("name_path",
			mcp.Description("Entry names from the top-level entry down to the one to update."),
			mcp.WithStringItems(),
			mcp.Required(),
		),
		mcp.WithString("command", mcp.Description("New command; empty clears it.")),
		mcp.WithString("icon", mcp.Description("New icon; empty clears it.")),
		mcp.WithString("position",
			mcp.Description("New position; empty clears it."),
			mcp.Enum("", "Top", "Bottom"),
		),
		mcp.WithString("separator",
			mcp.Description(`New separator; "none" clears both markers.`),
			mcp.Enum("none", "before", "after", "both"),
		),
		mcp.WithBoolean("extended", mcp.Description("Modifier-key-only visibility.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSet(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("menu_delete",
		mcp.WithDescription("Delete a context-menu entry and all of its children."),
		mcp.WithString("target",
			mcp.Description(`Right-click target: "folder", "background", "*", or an extension like ".txt".`),
			mcp.Required(),
		),
		mcp.WithArray("name_path",
			mcp.Description("Entry names from the top-level entry down to the one to delete."),
			mcp.WithStringItems(),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDelete(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("menu_classic",
		mcp.WithDescription("Enable or disable the legacy full context menu. The file manager must be restarted to apply."),
		mcp.WithBoolean("enabled",
			mcp.Description("true restores the legacy menu, false returns to the default."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleClassic(ctx, svc, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleCreate(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, namePath, errResult := targetArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	opts := menu.Options{
		Command:  req.GetString("command", ""),
		Icon:     req.GetString("icon", ""),
		Position: menu.Position(req.GetString("position", "")),
		Extended: req.GetBool("extended", false),
	}
	if sep := req.GetString("separator", ""); sep != "" {
		var err error
		if opts.Separator, err = menu.ParseSeparator(sep); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	if err := svc.Create(a, namePath, opts); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"target":    a.String(),
		"name_path": namePath,
		"created":   true,
	})
}

func handleList(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := menu.ParseActivation(req.GetString("target", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	infos, err := svc.List(a)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries := make([]map[string]any, 0, len(infos))
	for i := range infos {
		entries = append(entries, infoJSON(&infos[i]))
	}
	return jsonResult(map[string]any{
		"target":  a.String(),
		"entries": entries,
	})
}

func handleShow(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, namePath, errResult := targetArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	info, err := svc.Show(a, namePath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if info == nil {
		return jsonResult(map[string]any{"found": false})
	}
	out := infoJSON(info)
	out["found"] = true
	return jsonResult(out)
}

func handleSet(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, namePath, errResult := targetArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	// Only arguments present in the call are applied; the raw argument map is
	// what distinguishes "clear this attribute" from "leave it alone".
	args := req.GetArguments()
	var upd service.AttrUpdate
	if _, ok := args["command"]; ok {
		v := req.GetString("command", "")
		upd.Command = &v
	}
	if _, ok := args["icon"]; ok {
		v := req.GetString("icon", "")
		upd.Icon = &v
	}
	if _, ok := args["position"]; ok {
		v := menu.Position(req.GetString("position", ""))
		upd.Position = &v
	}
	if _, ok := args["separator"]; ok {
		sep, err := menu.ParseSeparator(req.GetString("separator", "none"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		upd.Separator = &sep
	}
	if _, ok := args["extended"]; ok {
		v := req.GetBool("extended", false)
		upd.Extended = &v
	}

	if err := svc.Set(a, namePath, upd); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := svc.Show(a, namePath)
	if err != nil || info == nil {
		return jsonResult(map[string]any{"updated": true})
	}
	out := infoJSON(info)
	out["updated"] = true
	return jsonResult(out)
}

func handleDelete(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, namePath, errResult := targetArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	deleted, err := svc.Delete(a, namePath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"target":    a.String(),
		"name_path": namePath,
		"deleted":   deleted,
	})
}

func handleClassic(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	enabled := req.GetBool("enabled", false)
	if err := svc.SetClassicMenu(enabled); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"classic_menu": enabled})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// targetArgs extracts and validates the target and name_path arguments shared
// by the entry tools. A non-nil result is the error to return to the client.
func targetArgs(req mcp.CallToolRequest) (menu.Activation, []string, *mcp.CallToolResult) {
	a, err := menu.ParseActivation(req.GetString("target", ""))
	if err != nil {
		return menu.Activation{}, nil, mcp.NewToolResultError(err.Error())
	}
	namePath := req.GetStringSlice("name_path", nil)
	if len(namePath) == 0 {
		return menu.Activation{}, nil, mcp.NewToolResultError("name_path must not be empty")
	}
	return a, namePath, nil
}

func infoJSON(info *service.EntryInfo) map[string]any {
	return map[string]any{
		"name":      info.Name,
		"path":      info.Path,
		"command":   info.Command,
		"icon":      info.Icon,
		"position":  string(info.Position),
		"separator": info.Separator.String(),
		"extended":  info.Extended,
		"children":  info.Children,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
