package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
)

type fakeUserRepo struct {
	byEmail map[string]*User
	updates int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *User) error {
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	for _, u := range f.byEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", userID)
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", email)
}

func (f *fakeUserRepo) Update(ctx context.Context, user *User) error {
	f.updates++
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]User, error) {
	var out []User
	for _, u := range f.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Exists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func newTestService(repo *fakeUserRepo) *Service {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwtService, DefaultServiceConfig())
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password, role string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := NewUser(email, "Test User", string(hash), role)
	repo.byEmail[email] = user
	return user
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	user := seedUser(t, repo, "admin@example.com", "secret123", RoleAdmin)

	session, got, err := svc.Login(context.Background(), Credentials{
		Email:    "admin@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotNil(t, got.LastLoginAt)
}

func TestLogin_WrongPasswordIsGeneric(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	seedUser(t, repo, "admin@example.com", "secret123", RoleAdmin)

	_, _, err := svc.Login(context.Background(), Credentials{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)

	// Unknown email must produce the same message as a wrong password.
	_, _, err2 := svc.Login(context.Background(), Credentials{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	appErr2, ok := apperror.AsAppError(err2)
	require.True(t, ok)
	assert.Equal(t, appErr.Message, appErr2.Message)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	user := seedUser(t, repo, "admin@example.com", "secret123", RoleAdmin)

	for i := 0; i < DefaultServiceConfig().MaxLoginAttempts; i++ {
		_, _, err := svc.Login(context.Background(), Credentials{
			Email:    "admin@example.com",
			Password: "wrong",
		})
		require.Error(t, err)
	}

	assert.True(t, user.IsLocked())

	// Even the right password is rejected while locked.
	_, _, err := svc.Login(context.Background(), Credentials{
		Email:    "admin@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestLogin_DisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	user := seedUser(t, repo, "old@example.com", "secret123", RoleCashier)
	user.IsActive = false

	_, _, err := svc.Login(context.Background(), Credentials{
		Email:    "old@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestCreateUser_Validation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.CreateUser(context.Background(), "", "X", "secret123", RoleCashier)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.CreateUser(context.Background(), "x@example.com", "X", "short", RoleCashier)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.CreateUser(context.Background(), "x@example.com", "X", "secret123", "SUPERVISOR")
	assert.True(t, apperror.IsValidation(err))
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	seedUser(t, repo, "x@example.com", "secret123", RoleCashier)

	_, err := svc.CreateUser(context.Background(), "x@example.com", "X", "secret123", RoleCashier)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	user := NewUser("admin@example.com", "Admin", "hash", RoleAdmin)

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), expiresAt, time.Minute)

	actor, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), actor.ActorID)
	assert.Equal(t, user.Email, actor.Email)
	assert.Equal(t, RoleAdmin, actor.Role)
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))
	user := NewUser("admin@example.com", "Admin", "hash", RoleAdmin)

	token, _, err := issuer.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}
