package auth

import "context"

type subjectKey struct{}

var ctxKeySub = subjectKey{}

// WithSubject stores the authenticated user id. It is also the user_id sent
// with evaluations and stored on history records.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySub, sub)
}

// SubjectFromContext returns the caller's user id, or "" for an
// unauthenticated request.
func SubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(ctxKeySub).(string)
	return sub
}
