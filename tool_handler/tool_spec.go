package toolhandler

// ToolSpec is what the model sees of a tool. InputSchema is a JSON schema
// object whose "required" list names the arguments a call must carry.
type ToolSpec struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema map[string]any   `json:"input_schema"`
	Examples    []map[string]any `json:"examples,omitempty"`
}

func (s ToolSpec) Required() []string {
	switch v := s.InputSchema["required"].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if name, ok := item.(string); ok {
				out = append(out, name)
			}
		}
		return out
	default:
		return nil
	}
}
