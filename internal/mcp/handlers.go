package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/debtmap/internal/config"
	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/errors"
	"github.com/hpungsan/debtmap/internal/ops"
	"github.com/hpungsan/debtmap/internal/storage"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	eng  *storage.Engine
	cfg  *config.Config
	root string
}

// NewHandlers creates a new Handlers instance. root is the project root used
// as the default scan root.
func NewHandlers(eng *storage.Engine, cfg *config.Config, root string) *Handlers {
	return &Handlers{eng: eng, cfg: cfg, root: root}
}

// Request types for each tool

// CreateRequest represents the arguments for debt_create.
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	FilePath    string   `json:"file_path"`
	LineNumber  int      `json:"line_number"`
	Severity    string   `json:"severity,omitempty"`
	Category    string   `json:"category,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Context     *string  `json:"context,omitempty"`
	Assignee    *string  `json:"assignee,omitempty"`
	Effort      *string  `json:"estimated_effort,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

// GetRequest represents the arguments for debt_get.
type GetRequest struct {
	ID string `json:"id"`
}

// ListRequest represents the arguments for debt_list.
type ListRequest struct {
	FilePath string `json:"file_path,omitempty"`
	Status   string `json:"status,omitempty"`
	Severity string `json:"severity,omitempty"`
	Category string `json:"category,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

// UpdateRequest represents the arguments for debt_update.
type UpdateRequest struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	FilePath    *string   `json:"file_path,omitempty"`
	LineNumber  *int      `json:"line_number,omitempty"`
	Severity    *string   `json:"severity,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Context     *string   `json:"context,omitempty"`
	Assignee    *string   `json:"assignee,omitempty"`
	Effort      *string   `json:"estimated_effort,omitempty"`
	Notes       *string   `json:"notes,omitempty"`

	ClearDueDate  bool `json:"clear_due_date,omitempty"`
	ClearContext  bool `json:"clear_context,omitempty"`
	ClearAssignee bool `json:"clear_assignee,omitempty"`
	ClearEffort   bool `json:"clear_estimated_effort,omitempty"`
	ClearNotes    bool `json:"clear_notes,omitempty"`
}

// DeleteRequest represents the arguments for debt_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// TransitionRequest represents the arguments for debt_transition.
type TransitionRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ScanRequest represents the arguments for debt_scan.
type ScanRequest struct {
	Root    string   `json:"root,omitempty"`
	Markers []string `json:"markers,omitempty"`
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
	Apply   bool     `json:"apply,omitempty"`
}

// ReportRequest represents the arguments for debt_report.
type ReportRequest struct {
	Path   string `json:"path,omitempty"`
	Format string `json:"format,omitempty"`
	Status string `json:"status,omitempty"`
}

// Handler implementations

// HandleCreate handles the debt_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	due, derr := parseOptionalTime(input.DueDate)
	if derr != nil {
		return errorResult(derr), nil
	}

	result, err := ops.Create(h.eng, ops.CreateInput{
		Title:       input.Title,
		Description: input.Description,
		FilePath:    input.FilePath,
		LineNumber:  input.LineNumber,
		Severity:    input.Severity,
		Category:    input.Category,
		Priority:    input.Priority,
		DueDate:     due,
		Tags:        input.Tags,
		Context:     input.Context,
		Assignee:    input.Assignee,
		Effort:      input.Effort,
		Notes:       input.Notes,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the debt_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Get(h.eng, ops.GetInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the debt_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.eng, ops.ListInput{
		FilePath: input.FilePath,
		Status:   input.Status,
		Severity: input.Severity,
		Category: input.Category,
		Tag:      input.Tag,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the debt_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	patch := debt.Patch{
		Title:         input.Title,
		Description:   input.Description,
		FilePath:      input.FilePath,
		LineNumber:    input.LineNumber,
		Tags:          input.Tags,
		Context:       input.Context,
		Assignee:      input.Assignee,
		Effort:        input.Effort,
		Notes:         input.Notes,
		ClearDueDate:  input.ClearDueDate,
		ClearContext:  input.ClearContext,
		ClearAssignee: input.ClearAssignee,
		ClearEffort:   input.ClearEffort,
		ClearNotes:    input.ClearNotes,
	}
	if input.Severity != nil {
		s := debt.Severity(*input.Severity)
		patch.Severity = &s
	}
	if input.Category != nil {
		c := debt.Category(*input.Category)
		patch.Category = &c
	}
	if input.Status != nil {
		s := debt.Status(*input.Status)
		patch.Status = &s
	}
	if input.Priority != nil {
		p := debt.Priority(*input.Priority)
		patch.Priority = &p
	}
	if input.DueDate != nil {
		due, derr := parseOptionalTime(*input.DueDate)
		if derr != nil {
			return errorResult(derr), nil
		}
		patch.DueDate = due
	}

	result, err := ops.Update(h.eng, ops.UpdateInput{ID: input.ID, Patch: patch})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the debt_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(h.eng, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTransition handles the debt_transition tool call.
func (h *Handlers) HandleTransition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TransitionRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Transition(h.eng, ops.TransitionInput{ID: input.ID, Status: input.Status})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleScan handles the debt_scan tool call. Cancellation from the MCP
// client is forwarded to the workspace scan.
func (h *Handlers) HandleScan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ScanRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	root := input.Root
	if root == "" {
		root = h.root
	}

	result, err := ops.Scan(ctx, h.eng, h.cfg, ops.ScanInput{
		Root:    root,
		Markers: input.Markers,
		Include: input.Include,
		Exclude: input.Exclude,
		Apply:   input.Apply,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleReport handles the debt_report tool call.
func (h *Handlers) HandleReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ReportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Report(h.eng, ops.ReportInput{
		Path:   input.Path,
		Format: input.Format,
		Status: input.Status,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStats handles the debt_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Stats(h.eng)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// parseOptionalTime parses an RFC 3339 timestamp or a bare date, "" meaning nil.
func parseOptionalTime(s string) (*time.Time, *errors.DebtError) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	return nil, errors.NewValidation("due_date", "must be RFC 3339 or YYYY-MM-DD")
}

// errorResult creates an MCP error result from any error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if dErr, ok := err.(*errors.DebtError); ok {
		errorObj := map[string]any{
			"code":    dErr.Code,
			"message": dErr.Message,
			"status":  dErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like absolute file paths
		if dErr.Code != errors.ErrInternal && dErr.Details != nil {
			errorObj["details"] = dErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
