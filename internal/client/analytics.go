package client

// Hooks are fire-and-forget analytics callbacks invoked on audit state
// transitions. Unset hooks are no-ops; nothing in the pipeline depends on
// them completing.
type Hooks struct {
	AuditStarted func(data map[string]any)
	AuditFailed  func(data map[string]any)
}

func (h Hooks) auditStarted(data map[string]any) {
	if h.AuditStarted != nil {
		h.AuditStarted(data)
	}
}

func (h Hooks) auditFailed(data map[string]any) {
	if h.AuditFailed != nil {
		h.AuditFailed(data)
	}
}
