package credential_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/shiftops/authcore/pkg/credential"
	"github.com/shiftops/authcore/pkg/gate"
	"github.com/shiftops/authcore/pkg/vault"
)

type testEnv struct {
	svc     *credential.Service
	keyring *vault.Keyring
	store   *credential.MemoryStore
	orgID   uuid.UUID
	admin   gate.Principal
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	key, err := vault.GenerateKey()
	require.NoError(t, err)
	kr, err := vault.NewKeyring("k1", key)
	require.NoError(t, err)

	store := credential.NewMemoryStore()
	orgID := uuid.New()
	return &testEnv{
		svc:     credential.NewService(vault.New(kr), store),
		keyring: kr,
		store:   store,
		orgID:   orgID,
		admin:   gate.Principal{UserID: uuid.New(), OrgID: orgID, Role: gate.RoleAdmin},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	handle, err := env.svc.Put(ctx, env.admin, env.orgID, "gmail", []byte("app-password-123"))
	require.NoError(t, err)
	require.Equal(t, env.orgID, handle.OrgID)
	require.Equal(t, "gmail", handle.IntegrationID)
	require.Equal(t, "k1", handle.KeyID)

	secret, err := env.svc.Get(ctx, env.admin, env.orgID, "gmail")
	require.NoError(t, err)
	require.Equal(t, []byte("app-password-123"), secret)
}

func TestPutReplacesExisting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Put(ctx, env.admin, env.orgID, "gmail", []byte("old-password"))
	require.NoError(t, err)
	_, err = env.svc.Put(ctx, env.admin, env.orgID, "gmail", []byte("new-password"))
	require.NoError(t, err)

	secret, err := env.svc.Get(ctx, env.admin, env.orgID, "gmail")
	require.NoError(t, err)
	require.Equal(t, []byte("new-password"), secret)
}

func TestIntegrationsAreIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Put(ctx, env.admin, env.orgID, "gmail", []byte("gmail-secret"))
	require.NoError(t, err)
	_, err = env.svc.Put(ctx, env.admin, env.orgID, "outlook", []byte("outlook-secret"))
	require.NoError(t, err)

	gmail, err := env.svc.Get(ctx, env.admin, env.orgID, "gmail")
	require.NoError(t, err)
	require.Equal(t, []byte("gmail-secret"), gmail)

	outlook, err := env.svc.Get(ctx, env.admin, env.orgID, "outlook")
	require.NoError(t, err)
	require.Equal(t, []byte("outlook-secret"), outlook)
}

func TestCredentialAuthorization(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Put(ctx, env.admin, env.orgID, "gmail", []byte("secret"))
	require.NoError(t, err)

	t.Run("cross-org admin denied", func(t *testing.T) {
		t.Parallel()
		foreign := gate.Principal{UserID: uuid.New(), OrgID: uuid.New(), Role: gate.RoleAdmin}

		_, err := env.svc.Get(ctx, foreign, env.orgID, "gmail")
		require.ErrorIs(t, err, gate.ErrCrossOrgAccess)
		_, err = env.svc.Put(ctx, foreign, env.orgID, "gmail", []byte("stolen"))
		require.ErrorIs(t, err, gate.ErrCrossOrgAccess)
		require.ErrorIs(t, env.svc.Delete(ctx, foreign, env.orgID, "gmail"), gate.ErrCrossOrgAccess)
	})

	t.Run("member denied", func(t *testing.T) {
		t.Parallel()
		member := gate.Principal{UserID: uuid.New(), OrgID: env.orgID, Role: gate.RoleMember}

		_, err := env.svc.Get(ctx, member, env.orgID, "gmail")
		require.ErrorIs(t, err, gate.ErrPermissionDenied)
	})

	t.Run("manager denied", func(t *testing.T) {
		t.Parallel()
		manager := gate.Principal{UserID: uuid.New(), OrgID: env.orgID, Role: gate.RoleManager}

		_, err := env.svc.Get(ctx, manager, env.orgID, "gmail")
		require.ErrorIs(t, err, gate.ErrPermissionDenied)
	})
}

func TestPutValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Put(ctx, env.admin, env.orgID, "", []byte("secret"))
	require.ErrorIs(t, err, credential.ErrIntegrationRequired)

	_, err = env.svc.Put(ctx, env.admin, env.orgID, "gmail", nil)
	require.ErrorIs(t, err, credential.ErrEmptySecret)
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Get(ctx, env.admin, env.orgID, "gmail")
	require.ErrorIs(t, err, credential.ErrCredentialNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Put(ctx, env.admin, env.orgID, "gmail", []byte("secret"))
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, env.admin, env.orgID, "gmail"))

	_, err = env.svc.Get(ctx, env.admin, env.orgID, "gmail")
	require.ErrorIs(t, err, credential.ErrCredentialNotFound)

	require.ErrorIs(t, env.svc.Delete(ctx, env.admin, env.orgID, "gmail"), credential.ErrCredentialNotFound)
}

func TestRotate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Put(ctx, env.admin, env.orgID, "gmail", []byte("keep-me"))
	require.NoError(t, err)

	newKey, err := vault.GenerateKey()
	require.NoError(t, err)
	require.NoError(t, env.keyring.Add("k2", newKey))
	require.NoError(t, env.keyring.Promote("k2"))

	handle, err := env.svc.Rotate(ctx, env.admin, env.orgID, "gmail")
	require.NoError(t, err)
	require.Equal(t, "k2", handle.KeyID)

	secret, err := env.svc.Get(ctx, env.admin, env.orgID, "gmail")
	require.NoError(t, err)
	require.Equal(t, []byte("keep-me"), secret)
}

func TestRotateNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Rotate(ctx, env.admin, env.orgID, "gmail")
	require.ErrorIs(t, err, credential.ErrCredentialNotFound)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { credential.NewService(nil, credential.NewMemoryStore()) })

	key, err := vault.GenerateKey()
	require.NoError(t, err)
	kr, err := vault.NewKeyring("k1", key)
	require.NoError(t, err)
	require.Panics(t, func() { credential.NewService(vault.New(kr), nil) })
}
