package httpx

type ctxKey string

const (
	// CtxKeyUserID carries the authenticated user's id, set by the auth
	// middleware and consumed by UserIDKeyExtractor for per-user limits.
	CtxKeyUserID ctxKey = "user_id"
)
