package assemble

// Tool execution happens outside the pipeline; only these value objects
// cross the boundary.

// ErrorTypeExecutionDenied marks a tool call rejected by the permission
// system. Responses carrying it become permission denials on the result.
const ErrorTypeExecutionDenied = "EXECUTION_DENIED"

// ToolCallRequestInfo describes a tool invocation handed to the executor.
type ToolCallRequestInfo struct {
	CallID string
	Name   string
	Args   map[string]any
}

// ToolCallResponseInfo describes the executor's answer to one call.
type ToolCallResponseInfo struct {
	CallID        string
	ResponseParts []string
	Error         error
	ErrorType     string
}
