package ctxkey

const (
	// RequestId is the per-request identifier, also echoed as a response header.
	RequestId = "X-Finlogs-Request-Id"

	// ViewId names the session value that points at a view controller in the registry.
	ViewId = "view_id"
	// ProfileId names the session value that scopes persisted preferences.
	ProfileId = "profile_id"
	// View holds the *controller.FinancialLogs bound to the request.
	View = "financial_logs_view"

	// Language holds the negotiated locale for the request.
	Language = "i18n"
)
