package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_NormalizesEmailDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"test1@EXAMPLE.com", "test1@example.com"},
		{"Test2@Example.com", "Test2@example.com"},
		{"TEST3@EXAMPLE.COM", "TEST3@example.com"},
		{"test4@example.COM", "test4@example.com"},
	}

	for _, tc := range cases {
		u, err := NewUser(tc.in, "Test User", "password123")
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, u.Email())
	}
}

func TestNewUser_EmptyEmailFails(t *testing.T) {
	u, err := NewUser("", "Test User", "password123")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestNewUser_InvalidEmailFails(t *testing.T) {
	for _, in := range []string{"no-at-sign", "@example.com", "user@"} {
		_, err := NewUser(in, "Test User", "password123")
		assert.ErrorIs(t, err, ErrEmailInvalid, in)
	}
}

func TestNewUser_PasswordTooShort(t *testing.T) {
	u, err := NewUser("test@example.com", "Test User", "pw")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestNewUser_PasswordMinimumLength(t *testing.T) {
	// Five characters is the floor, exactly five is fine.
	u, err := NewUser("test@example.com", "Test User", "12345")
	require.NoError(t, err)
	assert.NoError(t, u.CheckPassword("12345"))
}

func TestNewUser_PasswordRoundtrip(t *testing.T) {
	u, err := NewUser("test@example.com", "Test User", "correct-horse")
	require.NoError(t, err)

	assert.NoError(t, u.CheckPassword("correct-horse"))
	assert.Error(t, u.CheckPassword("wrong-horse"))
	assert.Error(t, u.CheckPassword(""))
	assert.NotEqual(t, "correct-horse", u.PasswordHash())
}

func TestNewUser_DefaultFlags(t *testing.T) {
	u, err := NewUser("test@example.com", "Test User", "password123")
	require.NoError(t, err)

	assert.False(t, u.IsStaff())
	assert.False(t, u.IsSuperuser())
	assert.False(t, u.CanListAllRecipes())
	assert.False(t, u.CanActOnAnyRecipe())
}

func TestNewSuperuser_GrantsCapabilities(t *testing.T) {
	u, err := NewSuperuser("admin@example.com", "password123")
	require.NoError(t, err)

	assert.True(t, u.IsStaff())
	assert.True(t, u.IsSuperuser())
	assert.True(t, u.CanListAllRecipes())
	assert.True(t, u.CanActOnAnyRecipe())
}

func TestUpdatePassword_Rehashes(t *testing.T) {
	u, err := NewUser("test@example.com", "Test User", "original-pass")
	require.NoError(t, err)
	oldHash := u.PasswordHash()

	require.NoError(t, u.UpdatePassword("brand-new-pass"))

	assert.NotEqual(t, oldHash, u.PasswordHash())
	assert.NoError(t, u.CheckPassword("brand-new-pass"))
	assert.Error(t, u.CheckPassword("original-pass"))
}

func TestUpdatePassword_RejectsShort(t *testing.T) {
	u, err := NewUser("test@example.com", "Test User", "original-pass")
	require.NoError(t, err)

	assert.ErrorIs(t, u.UpdatePassword("abc"), ErrPasswordTooShort)
	assert.NoError(t, u.CheckPassword("original-pass"))
}

func TestNewAuthToken(t *testing.T) {
	u, err := NewUser("test@example.com", "Test User", "password123")
	require.NoError(t, err)

	first, err := NewAuthToken(u.ID())
	require.NoError(t, err)
	second, err := NewAuthToken(u.ID())
	require.NoError(t, err)

	assert.Len(t, first.Key, 40)
	assert.Equal(t, u.ID(), first.UserID)
	assert.NotEqual(t, first.Key, second.Key)
}
