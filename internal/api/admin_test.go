package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersRequiresStaff(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "test@example.com", "Testpass123")

	w := env.request(t, http.MethodGet, "/admin/users", nil, env.token(t, user))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListUsersAsStaff(t *testing.T) {
	env := newTestEnv(t)
	staff := env.createUser(t, "staff@example.com", "Testpass123")
	require.NoError(t, env.db.Model(&staff).Update("is_staff", true).Error)
	env.createUser(t, "test@example.com", "Testpass123")

	w := env.request(t, http.MethodGet, "/admin/users", nil, env.token(t, staff))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Users []UserAdminResponse `json:"users"`
		Total int64               `json:"total"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, int64(2), resp.Total)
	assert.Len(t, resp.Users, 2)
}
