package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/mind-engage/examprep/internal/auth/middleware"
	"github.com/mind-engage/examprep/internal/db"
)

func TestGuestLogin_CreatesAndReuses(t *testing.T) {
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file::memory:")
	require.NoError(t, err)
	defer dbh.Close()
	a := authmw.NewAuthService("s1")
	h := GuestLoginHandler(a, dbh)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/auth/guest", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var first struct {
		AccessToken string `json:"access_token"`
		Username    string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))
	assert.True(t, strings.HasPrefix(first.Username, "guest-"))
	c, err := a.Parse(first.AccessToken)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.Sub, "guest|"))
	assert.Equal(t, "student", c.Role)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, c.Sub, cookies[0].Value)

	// Same cookie, same guest.
	req := httptest.NewRequest(http.MethodPost, "/auth/guest", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var second struct {
		AccessToken string `json:"access_token"`
		Username    string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &second))
	assert.Equal(t, first.Username, second.Username)
	c2, err := a.Parse(second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, c.Sub, c2.Sub)
}
