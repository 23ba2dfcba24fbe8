package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var stringItems = map[string]any{"type": "string"}

var createToolDef = mcp.NewTool("debt_create",
	mcp.WithDescription("Create a technical debt entry. Title (max 100 chars), description (max 500 chars), file path, and line number are required."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Short summary, at most 100 characters")),
	mcp.WithString("description", mcp.Required(), mcp.Description("Explanation of the debt, at most 500 characters")),
	mcp.WithString("file_path", mcp.Required(), mcp.Description("Project-relative file path")),
	mcp.WithNumber("line_number", mcp.Required(), mcp.Description("1-based line number")),
	mcp.WithString("severity", mcp.Description("low | medium | high | critical (default low)")),
	mcp.WithString("category", mcp.Description("code-quality | performance | security | testing | documentation | architecture | refactoring | other (default other)")),
	mcp.WithString("priority", mcp.Description("low | normal | high | urgent (default normal)")),
	mcp.WithString("due_date", mcp.Description("Optional due date, RFC 3339")),
	mcp.WithArray("tags", mcp.Description("Free-form labels"), mcp.Items(stringItems)),
	mcp.WithString("context", mcp.Description("Optional surrounding-code context")),
	mcp.WithString("assignee", mcp.Description("Optional assignee")),
	mcp.WithString("estimated_effort", mcp.Description("Optional effort estimate")),
	mcp.WithString("notes", mcp.Description("Optional notes, markdown allowed")),
)

var getToolDef = mcp.NewTool("debt_get",
	mcp.WithDescription("Fetch one debt entry by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Entry id, e.g. debt-1756630000000-a1b2c3d4")),
)

var listToolDef = mcp.NewTool("debt_list",
	mcp.WithDescription("List debt entries in insertion order, with optional exact-match filters."),
	mcp.WithString("file_path", mcp.Description("Filter: exact project-relative path")),
	mcp.WithString("status", mcp.Description("Filter: open | in-progress | review | resolved | closed")),
	mcp.WithString("severity", mcp.Description("Filter: low | medium | high | critical")),
	mcp.WithString("category", mcp.Description("Filter: category token")),
	mcp.WithString("tag", mcp.Description("Filter: entries carrying this tag")),
)

var updateToolDef = mcp.NewTool("debt_update",
	mcp.WithDescription("Partially update a debt entry. Omitted fields are untouched; clear_* flags remove optional fields. Status changes obey the transition whitelist."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Entry id")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("description", mcp.Description("New description")),
	mcp.WithString("file_path", mcp.Description("New file path")),
	mcp.WithNumber("line_number", mcp.Description("New line number")),
	mcp.WithString("severity", mcp.Description("New severity")),
	mcp.WithString("category", mcp.Description("New category")),
	mcp.WithString("status", mcp.Description("New status (whitelist-gated)")),
	mcp.WithString("priority", mcp.Description("New priority")),
	mcp.WithString("due_date", mcp.Description("New due date, RFC 3339")),
	mcp.WithArray("tags", mcp.Description("Replacement tag set"), mcp.Items(stringItems)),
	mcp.WithString("context", mcp.Description("New context")),
	mcp.WithString("assignee", mcp.Description("New assignee")),
	mcp.WithString("estimated_effort", mcp.Description("New effort estimate")),
	mcp.WithString("notes", mcp.Description("New notes")),
	mcp.WithBoolean("clear_due_date", mcp.Description("Remove the due date")),
	mcp.WithBoolean("clear_context", mcp.Description("Remove the context")),
	mcp.WithBoolean("clear_assignee", mcp.Description("Remove the assignee")),
	mcp.WithBoolean("clear_estimated_effort", mcp.Description("Remove the effort estimate")),
	mcp.WithBoolean("clear_notes", mcp.Description("Remove the notes")),
)

var deleteToolDef = mcp.NewTool("debt_delete",
	mcp.WithDescription("Permanently remove a debt entry."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Entry id")),
)

var transitionToolDef = mcp.NewTool("debt_transition",
	mcp.WithDescription("Move a debt entry to a new lifecycle status, gated by the transition whitelist."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Entry id")),
	mcp.WithString("status", mcp.Required(), mcp.Description("Target status: open | in-progress | review | resolved | closed")),
)

var scanToolDef = mcp.NewTool("debt_scan",
	mcp.WithDescription("Scan the workspace for debt markers (TODO, FIXME, ...) and optionally create entries for new findings."),
	mcp.WithString("root", mcp.Description("Scan root (default: the project root)")),
	mcp.WithArray("markers", mcp.Description("Marker vocabulary override"), mcp.Items(stringItems)),
	mcp.WithArray("include", mcp.Description("Include glob override"), mcp.Items(stringItems)),
	mcp.WithArray("exclude", mcp.Description("Exclude glob override"), mcp.Items(stringItems)),
	mcp.WithBoolean("apply", mcp.Description("Create entries for candidates not already tracked")),
)

var reportToolDef = mcp.NewTool("debt_report",
	mcp.WithDescription("Write a grouped debt report to disk as markdown or HTML."),
	mcp.WithString("path", mcp.Description("Output path (default under the storage directory)")),
	mcp.WithString("format", mcp.Description("markdown (default) | html")),
	mcp.WithString("status", mcp.Description("Restrict the report to one status")),
)

var statsToolDef = mcp.NewTool("debt_stats",
	mcp.WithDescription("Summarize tracked debt: totals and counts by status, severity, and category."),
)
