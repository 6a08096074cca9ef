package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserSingleAccountOnly(t *testing.T) {
	manager := NewUserManager(t.TempDir(), nil)
	require.True(t, manager.IsFirstRun())

	user, err := manager.CreateUser("admin", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.Password, "密码必须加密存储")
	assert.False(t, manager.IsFirstRun())

	_, err = manager.CreateUser("second", "password456")
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestAuthenticateUserRecordsLastLogin(t *testing.T) {
	dir := t.TempDir()
	manager := NewUserManager(dir, nil)
	_, err := manager.CreateUser("admin", "password123")
	require.NoError(t, err)

	user, err := manager.AuthenticateUser("admin", "password123")
	require.NoError(t, err)
	assert.False(t, user.LastLogin.IsZero(), "登录成功后应记录最近登录时间")

	// 最近登录时间要落盘
	content, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	var stored []*User
	require.NoError(t, json.Unmarshal(content, &stored))
	require.Len(t, stored, 1)
	assert.False(t, stored[0].LastLogin.IsZero())
}

func TestAuthenticateUserRejectsBadCredentials(t *testing.T) {
	manager := NewUserManager(t.TempDir(), nil)
	_, err := manager.CreateUser("admin", "password123")
	require.NoError(t, err)

	_, err = manager.AuthenticateUser("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = manager.AuthenticateUser("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserManagerLoadsFromDataFile(t *testing.T) {
	dir := t.TempDir()
	first := NewUserManager(dir, nil)
	created, err := first.CreateUser("admin", "password123")
	require.NoError(t, err)

	// 新实例从users.json恢复账号
	second := NewUserManager(dir, nil)
	loaded, err := second.GetUserByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)

	_, err = second.GetUserByUsername("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
