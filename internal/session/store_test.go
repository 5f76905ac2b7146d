package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_client/internal/gateway"
	"github.com/Skotchmaster/shop_client/internal/models"
	"github.com/Skotchmaster/shop_client/internal/notify"
)

type fakeGateway struct {
	loginResp    *gateway.AuthResponse
	loginErr     error
	registerResp *gateway.AuthResponse
	registerErr  error
	updateResp   *models.User
	updateErr    error

	loginCalls    int
	registerCalls int
	updateCalls   int
}

func (f *fakeGateway) Login(ctx context.Context, creds gateway.Credentials) (*gateway.AuthResponse, error) {
	f.loginCalls++
	return f.loginResp, f.loginErr
}

func (f *fakeGateway) Register(ctx context.Context, req gateway.RegisterRequest) (*gateway.AuthResponse, error) {
	f.registerCalls++
	return f.registerResp, f.registerErr
}

func (f *fakeGateway) UpdateProfile(ctx context.Context, userID int64, update gateway.ProfileUpdate) (*models.User, error) {
	f.updateCalls++
	return f.updateResp, f.updateErr
}

type memStorage struct {
	user  *models.User
	token string
	saves int
}

func (m *memStorage) SaveSession(user *models.User, token string) error {
	m.user = user
	m.token = token
	m.saves++
	return nil
}

func (m *memStorage) LoadSession() (*models.User, string, error) {
	return m.user, m.token, nil
}

func (m *memStorage) ClearSession() error {
	m.user = nil
	m.token = ""
	return nil
}

func testUser() models.User {
	return models.User{ID: 7, Username: "alice", Email: "alice@example.com"}
}

func TestLogin_SetsIdentityAndTokenTogether(t *testing.T) {
	t.Parallel()

	user := testUser()
	gw := &fakeGateway{loginResp: &gateway.AuthResponse{User: user, Token: "t1"}}
	st := &memStorage{}
	s := New(gw, st, notify.Nop{})

	got, err := s.Login(context.Background(), gateway.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.ID)

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "t1", s.Token())

	require.NotNil(t, st.user)
	assert.Equal(t, int64(7), st.user.ID)
	assert.Equal(t, "t1", st.token)
	assert.Equal(t, 1, st.saves)
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{loginErr: &gateway.APIError{Status: 401, Message: "invalid credentials"}}
	st := &memStorage{}
	s := New(gw, st, notify.Nop{})

	_, err := s.Login(context.Background(), gateway.Credentials{Username: "alice", Password: "wrong"})
	require.Error(t, err)

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, st.user)
	assert.Equal(t, "invalid credentials", s.Err())
}

func TestRegister_EstablishesSession(t *testing.T) {
	t.Parallel()

	user := testUser()
	gw := &fakeGateway{registerResp: &gateway.AuthResponse{User: user, Token: "t2"}}
	st := &memStorage{}
	s := New(gw, st, notify.Nop{})

	got, err := s.Register(context.Background(), gateway.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secretpass",
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "t2", s.Token())
	require.NotNil(t, st.user)
	assert.Equal(t, "t2", st.token)
}

func TestLogout_ClearsBothMemoryAndStorage(t *testing.T) {
	t.Parallel()

	user := testUser()
	gw := &fakeGateway{loginResp: &gateway.AuthResponse{User: user, Token: "t1"}}
	st := &memStorage{}
	s := New(gw, st, notify.Nop{})

	_, err := s.Login(context.Background(), gateway.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	s.Logout(context.Background())

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.CurrentUser())
	assert.Empty(t, s.Token())
	assert.Nil(t, st.user)
	assert.Empty(t, st.token)
}

func TestUpdateProfile_ReplacesIdentityWholesale(t *testing.T) {
	t.Parallel()

	user := testUser()
	updated := testUser()
	updated.Email = "new@example.com"

	gw := &fakeGateway{
		loginResp:  &gateway.AuthResponse{User: user, Token: "t1"},
		updateResp: &updated,
	}
	st := &memStorage{}
	s := New(gw, st, notify.Nop{})

	_, err := s.Login(context.Background(), gateway.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	got, err := s.UpdateProfile(context.Background(), gateway.ProfileUpdate{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)

	assert.Equal(t, "new@example.com", s.CurrentUser().Email)
	assert.Equal(t, "t1", s.Token())
	require.NotNil(t, st.user)
	assert.Equal(t, "new@example.com", st.user.Email)
}

func TestUpdateProfile_RequiresSession(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	s := New(gw, &memStorage{}, notify.Nop{})

	_, err := s.UpdateProfile(context.Background(), gateway.ProfileUpdate{Email: "x@example.com"})
	require.ErrorIs(t, err, ErrNoSession)
	assert.Zero(t, gw.updateCalls)
}

func TestUpdateProfile_FailureKeepsOldIdentity(t *testing.T) {
	t.Parallel()

	user := testUser()
	gw := &fakeGateway{
		loginResp: &gateway.AuthResponse{User: user, Token: "t1"},
		updateErr: &gateway.APIError{Status: 500, Message: "boom"},
	}
	s := New(gw, &memStorage{}, notify.Nop{})

	_, err := s.Login(context.Background(), gateway.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	_, err = s.UpdateProfile(context.Background(), gateway.ProfileUpdate{Email: "x@example.com"})
	require.Error(t, err)

	assert.Equal(t, "alice@example.com", s.CurrentUser().Email)
}

func TestHydrate_RestoresStoredSession(t *testing.T) {
	t.Parallel()

	user := testUser()
	st := &memStorage{user: &user, token: "stored"}
	s := New(&fakeGateway{}, st, notify.Nop{})

	var observed *models.User
	s.OnIdentityChange(func(ctx context.Context, u *models.User) { observed = u })

	require.True(t, s.Loading())
	require.NoError(t, s.Hydrate(context.Background()))

	assert.False(t, s.Loading())
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "stored", s.Token())
	require.NotNil(t, observed)
	assert.Equal(t, int64(7), observed.ID)
}

func TestHydrate_EmptyStorageStaysAnonymous(t *testing.T) {
	t.Parallel()

	s := New(&fakeGateway{}, &memStorage{}, notify.Nop{})

	fired := false
	s.OnIdentityChange(func(ctx context.Context, u *models.User) { fired = true })

	require.NoError(t, s.Hydrate(context.Background()))

	assert.False(t, s.Loading())
	assert.False(t, s.IsAuthenticated())
	assert.False(t, fired)
}

func TestHydrate_DiscardsExpiredToken(t *testing.T) {
	t.Parallel()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	token, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	user := testUser()
	st := &memStorage{user: &user, token: token}
	s := New(&fakeGateway{}, st, notify.Nop{})

	require.NoError(t, s.Hydrate(context.Background()))

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, st.user)
}

func TestHydrate_KeepsOpaqueToken(t *testing.T) {
	t.Parallel()

	user := testUser()
	st := &memStorage{user: &user, token: "not-a-jwt"}
	s := New(&fakeGateway{}, st, notify.Nop{})

	require.NoError(t, s.Hydrate(context.Background()))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "not-a-jwt", s.Token())
}

func TestIdentityChange_FiresOnLoginAndLogout(t *testing.T) {
	t.Parallel()

	user := testUser()
	gw := &fakeGateway{loginResp: &gateway.AuthResponse{User: user, Token: "t1"}}
	s := New(gw, &memStorage{}, notify.Nop{})

	var transitions []*models.User
	s.OnIdentityChange(func(ctx context.Context, u *models.User) {
		transitions = append(transitions, u)
	})

	_, err := s.Login(context.Background(), gateway.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	s.Logout(context.Background())

	require.Len(t, transitions, 2)
	require.NotNil(t, transitions[0])
	assert.Equal(t, int64(7), transitions[0].ID)
	assert.Nil(t, transitions[1])
}

func TestLogout_WhileAnonymousDoesNotFireCallbacks(t *testing.T) {
	t.Parallel()

	s := New(&fakeGateway{}, &memStorage{}, notify.Nop{})

	fired := 0
	s.OnIdentityChange(func(ctx context.Context, u *models.User) { fired++ })

	s.Logout(context.Background())
	assert.Zero(t, fired)
}

func TestLogin_NetworkErrorUsesFallbackMessage(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{loginErr: errors.New("dial tcp: connection refused")}
	s := New(gw, &memStorage{}, notify.Nop{})

	_, err := s.Login(context.Background(), gateway.Credentials{Username: "alice", Password: "secret"})
	require.Error(t, err)
	assert.Equal(t, "Login failed", s.Err())
}
