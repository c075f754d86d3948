package auth

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/mind-engage/examprep/internal/rbac"
)

// AttachRoleFromDB replaces the token's role with the one stored for the
// subject, so role changes apply without waiting for tokens to expire.
// Unknown subjects keep their token role only when allowClaimFallback is set.
func AttachRoleFromDB(db *sql.DB, allowClaimFallback bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sub := SubjectFromContext(ctx)

			var role string
			err := db.QueryRowContext(ctx, `SELECT role FROM users WHERE id=$1`, sub).Scan(&role)
			switch {
			case err == nil && role != "":
				next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, role)))
			case errors.Is(err, sql.ErrNoRows) && allowClaimFallback:
				next.ServeHTTP(w, r)
			case err != nil && !errors.Is(err, sql.ErrNoRows):
				http.Error(w, "role lookup failed", http.StatusInternalServerError)
			default:
				http.Error(w, "forbidden", http.StatusForbidden)
			}
		})
	}
}
