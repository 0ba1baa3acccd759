package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/resumematch/internal/client/models"
	"github.com/dmitrijs2005/resumematch/internal/client/session"
	"github.com/dmitrijs2005/resumematch/internal/common"
	"github.com/dmitrijs2005/resumematch/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_StartsLoading(t *testing.T) {
	c := NewContext(&fakeStore{}, logging.Discard())
	assert.True(t, c.Loading())
	assert.Equal(t, Decision{Action: ActionWait}, Guard(c, "analyze"))
}

func TestContext_Init(t *testing.T) {
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		c := NewContext(&fakeStore{}, logging.Discard())
		require.NoError(t, c.Init(ctx))
		assert.Equal(t, StateAnonymous, c.State())
		_, ok := c.Identity()
		assert.False(t, ok)
	})

	t.Run("valid token and profile", func(t *testing.T) {
		st := &fakeStore{token: mint(t, validClaims()), profile: &models.Profile{Name: "Ada"}}
		c := NewContext(st, logging.Discard())
		require.NoError(t, c.Init(ctx))

		assert.Equal(t, StateAuthenticated, c.State())
		id, ok := c.Identity()
		require.True(t, ok)
		assert.Equal(t, "Ada", id.Name)
		assert.Equal(t, "u1", id.ID)
	})

	t.Run("undecodable token clears store", func(t *testing.T) {
		st := &fakeStore{token: "not-a-jwt", profile: &models.Profile{Name: "Ada"}}
		c := NewContext(st, logging.Discard())
		require.NoError(t, c.Init(ctx))

		assert.Equal(t, StateAnonymous, c.State())
		assert.Equal(t, 1, st.clears)
		assert.Empty(t, st.token)
	})

	t.Run("corrupt session clears store", func(t *testing.T) {
		st := &fakeStore{tokenErr: session.ErrCorrupt}
		c := NewContext(st, logging.Discard())
		require.NoError(t, c.Init(ctx))
		assert.Equal(t, StateAnonymous, c.State())
		assert.Equal(t, 1, st.clears)
	})

	t.Run("corrupt profile keeps token", func(t *testing.T) {
		st := &fakeStore{token: mint(t, validClaims()), profErr: session.ErrCorrupt}
		c := NewContext(st, logging.Discard())
		require.NoError(t, c.Init(ctx))
		assert.Equal(t, StateAuthenticated, c.State())
		assert.Zero(t, st.clears)
	})

	t.Run("storage failure", func(t *testing.T) {
		boom := errors.New("disk gone")
		c := NewContext(&fakeStore{tokenErr: boom}, logging.Discard())
		assert.ErrorIs(t, c.Init(ctx), boom)
	})
}

func TestContext_LoginLogout(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	c := NewContext(st, logging.Discard())
	require.NoError(t, c.Init(ctx))

	tok := mint(t, validClaims())
	require.NoError(t, c.Login(ctx, tok, &models.Profile{Name: "Ada"}))
	assert.Equal(t, StateAuthenticated, c.State())
	assert.Equal(t, tok, st.token)
	assert.Equal(t, Decision{Action: ActionAllow}, Guard(c, "analyze"))

	require.NoError(t, c.Logout(ctx))
	assert.Equal(t, StateAnonymous, c.State())
	assert.Empty(t, st.token)
	assert.Nil(t, st.profile)
	assert.Equal(t, Decision{Action: ActionRedirect, Redirect: LoginTarget, Next: "analyze"}, Guard(c, "analyze"))
}

func TestContext_LoginInvalidToken(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{token: mint(t, validClaims())}
	c := NewContext(st, logging.Discard())
	require.NoError(t, c.Init(ctx))

	err := c.Login(ctx, "garbage", nil)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	assert.Equal(t, StateAnonymous, c.State())
	assert.Empty(t, st.token)
}

func TestContext_LoginStoreFailure(t *testing.T) {
	boom := errors.New("readonly")
	c := NewContext(&fakeStore{setErr: boom}, logging.Discard())
	require.NoError(t, c.Init(context.Background()))

	err := c.Login(context.Background(), mint(t, validClaims()), nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateAnonymous, c.State())
}

func TestContext_UpdateProfileAndCount(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	c := NewContext(st, logging.Discard())
	require.NoError(t, c.Init(ctx))

	// no-op while anonymous
	require.NoError(t, c.UpdateProfile(ctx, &models.Profile{Name: "X"}))
	assert.Nil(t, st.profile)

	require.NoError(t, c.Login(ctx, mint(t, validClaims()), nil))
	require.NoError(t, c.UpdateProfile(ctx, &models.Profile{Name: "Ada", AnalysisCount: intPtr(3)}))

	id, _ := c.Identity()
	assert.Equal(t, "Ada", id.Name)
	assert.Equal(t, 3, id.AnalysisCount)
	require.NotNil(t, st.profile)

	c.SetAnalysisCount(9)
	id, _ = c.Identity()
	assert.Equal(t, 9, id.AnalysisCount)
}
