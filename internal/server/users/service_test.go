package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeRepo is an in-memory Repository keyed by email.
type fakeRepo struct {
	byEmail map[string]*User
	nextID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: make(map[string]*User)}
}

func (f *fakeRepo) Create(ctx context.Context, user *User) (*User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return nil, ErrEmailTaken
	}
	f.nextID++
	user.ID = string(rune('0' + f.nextID))
	user.CreatedAt = time.Now()
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

var secret = []byte("test-secret")

func newService(repo Repository) *Service {
	return NewService(repo, secret, time.Hour)
}

func TestService_RegisterAndLogin(t *testing.T) {
	repo := newFakeRepo()
	s := newService(repo)
	ctx := context.Background()

	token, user, err := s.Register(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)

	// The stored hash must verify against the original password.
	stored := repo.byEmail["a@b.com"]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	loginToken, loginUser, err := s.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loginUser.ID)

	uid, err := s.Authenticate(loginToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, uid)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	s := newService(newFakeRepo())
	ctx := context.Background()

	_, _, err := s.Register(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	_, _, err = s.Register(ctx, "a@b.com", "other-pass")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Login_WrongPassword(t *testing.T) {
	s := newService(newFakeRepo())
	ctx := context.Background()

	_, _, err := s.Register(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmailIndistinguishable(t *testing.T) {
	s := newService(newFakeRepo())

	_, _, err := s.Login(context.Background(), "nobody@b.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	s := newService(newFakeRepo())

	_, err := s.Authenticate("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Token signed with a different secret.
	other, err := GenerateToken("u-1", []byte("other-secret"), time.Hour)
	require.NoError(t, err)
	_, err = s.Authenticate(other)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateToken_Expiry(t *testing.T) {
	token, err := GenerateToken("u-1", secret, -time.Minute)
	require.NoError(t, err)

	_, err = UserIDFromToken(token, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
