package middlewares

const (
	CtxRequestID = "request_id"
	CtxUsername  = "auth.username"
	CtxName      = "auth.name"
	CtxRole      = "auth.role"
)
