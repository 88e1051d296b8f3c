package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/bankclient/internal/client/models"
	"github.com/dmitrijs2005/bankclient/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_ListUsers(t *testing.T) {
	gw, st := newAPI(t, http.StatusOK, `{"content":[{"userId":"u-1","fullName":"Foo","role":"USER"}],"number":0,"size":10,"totalElements":1,"totalPages":1,"last":true}`)

	p, err := NewAdminService(gw).ListUsers(context.Background(), 0, 10)

	require.NoError(t, err)
	require.Len(t, p.Content, 1)
	assert.Equal(t, "Foo", p.Content[0].FullName)
	assert.Equal(t, "/admin/users", st.last().Path)
	assert.Equal(t, "0", st.last().Query.Get("page"))
}

func TestAdmin_CreateUser(t *testing.T) {
	gw, st := newAPI(t, http.StatusCreated, `{"userId":"u-2","fullName":"New","email":"new@bank.test","role":"USER"}`)
	svc := NewAdminService(gw)

	u, err := svc.CreateUser(context.Background(), models.SignupRequest{
		FullName: "New", Email: "new@bank.test", Password: "secret1", AccountType: models.AccountSavings,
	})

	require.NoError(t, err)
	assert.Equal(t, "u-2", u.UserID)
	assert.Equal(t, http.MethodPost, st.last().Method)
	assert.JSONEq(t, `{"fullName":"New","email":"new@bank.test","password":"secret1","role":"USER","accountType":"SAVINGS"}`, st.last().Body)
}

func TestAdmin_CreateUserValidation(t *testing.T) {
	gw, st := newAPI(t, http.StatusCreated, `{}`)
	svc := NewAdminService(gw)

	invalid := []models.SignupRequest{
		{Email: "a@b.c", Password: "secret1"},
		{FullName: "A", Email: "nope", Password: "secret1"},
		{FullName: "A", Email: "a@b.c", Password: "123"},
		{FullName: "A", Email: "a@b.c", Password: "secret1", Balance: -5},
	}
	for _, req := range invalid {
		_, err := svc.CreateUser(context.Background(), req)
		require.ErrorIs(t, err, common.ErrValidation)
	}
	assert.Zero(t, st.count())
}

func TestAdmin_DeleteUser(t *testing.T) {
	gw, st := newAPI(t, http.StatusNoContent, "")
	svc := NewAdminService(gw)

	require.NoError(t, svc.DeleteUser(context.Background(), "u-1"))
	assert.Equal(t, "/admin/users/u-1", st.last().Path)
	assert.Equal(t, http.MethodDelete, st.last().Method)

	require.ErrorIs(t, svc.DeleteUser(context.Background(), ""), common.ErrValidation)
}
