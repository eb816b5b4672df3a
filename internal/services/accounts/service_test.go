package accounts

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aigate/internal/domain/account"
	"aigate/internal/domain/group"
	"aigate/internal/listing"
)

type fakeAccountRepo struct {
	byID   map[int64]*account.Account
	nextID int64
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: map[int64]*account.Account{}}
}

func (f *fakeAccountRepo) Save(_ context.Context, a *account.Account) error {
	if a.ID == 0 {
		f.nextID++
		a.ID = f.nextID
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAccountRepo) FindByID(_ context.Context, id int64) (*account.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return a, nil
}

func (f *fakeAccountRepo) FindByKeyHash(_ context.Context, keyHash string) (*account.Account, error) {
	for _, a := range f.byID {
		if a.KeyHash == keyHash && a.IsActive() {
			return a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) List(_ context.Context, _ listing.Query) ([]*account.Account, int, error) {
	return nil, 0, nil
}

func (f *fakeAccountRepo) UpdateKeyHash(_ context.Context, id int64, keyHash string) error {
	a, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.KeyHash = keyHash
	return nil
}

func (f *fakeAccountRepo) Delete(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

type fakeGroupRepo struct {
	byID map[int64]*group.Group
}

func (f *fakeGroupRepo) Save(_ context.Context, g *group.Group) error { return nil }
func (f *fakeGroupRepo) FindByID(_ context.Context, id int64) (*group.Group, error) {
	g, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return g, nil
}
func (f *fakeGroupRepo) List(_ context.Context, _ listing.Query) ([]*group.Group, int, error) {
	return nil, 0, nil
}
func (f *fakeGroupRepo) Delete(_ context.Context, id int64) error { return nil }

func newService() (*Service, *fakeAccountRepo, *fakeGroupRepo) {
	accounts := newFakeAccountRepo()
	groups := &fakeGroupRepo{byID: map[int64]*group.Group{
		5: {ID: 5, Name: "premium", Multiplier: 2},
	}}
	return NewService(accounts, groups), accounts, groups
}

func TestCreateIssuesKeyOnce(t *testing.T) {
	svc, repo, _ := newService()

	result, err := svc.Create(context.Background(), CreateRequest{Name: "acme"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.APIKey, "ag_"))

	stored := repo.byID[result.Account.ID]
	assert.Equal(t, HashAPIKey(result.APIKey), stored.KeyHash)
	assert.NotContains(t, stored.KeyHash, result.APIKey)
	assert.Equal(t, account.DefaultRateLimitMinute, stored.RateLimitMinute)
}

func TestCreateRejectsUnknownGroup(t *testing.T) {
	svc, _, _ := newService()
	missing := int64(99)

	_, err := svc.Create(context.Background(), CreateRequest{Name: "acme", GroupID: &missing})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "groupId", valErr.Field)
}

func TestCreateAppliesQuotaOverrides(t *testing.T) {
	svc, _, _ := newService()

	result, err := svc.Create(context.Background(), CreateRequest{
		Name:            "acme",
		RateLimitMinute: 120,
		QuotaRequests:   5000,
	})
	require.NoError(t, err)
	assert.Equal(t, 120, result.Account.RateLimitMinute)
	assert.Equal(t, int64(5000), result.Account.QuotaRequests)
	assert.Equal(t, int64(account.DefaultQuotaTokensIn), result.Account.QuotaTokensIn)
}

func TestUpdateStatusAndGroup(t *testing.T) {
	svc, _, _ := newService()
	created, err := svc.Create(context.Background(), CreateRequest{Name: "acme"})
	require.NoError(t, err)

	disabled := account.StatusDisabled
	groupID := int64(5)
	updated, err := svc.Update(context.Background(), created.Account.ID, UpdateRequest{
		Status:  &disabled,
		GroupID: &groupID,
	})
	require.NoError(t, err)
	assert.Equal(t, account.StatusDisabled, updated.Status)
	require.NotNil(t, updated.GroupID)
	assert.Equal(t, int64(5), *updated.GroupID)

	updated, err = svc.Update(context.Background(), created.Account.ID, UpdateRequest{ClearGroup: true})
	require.NoError(t, err)
	assert.Nil(t, updated.GroupID)
}

func TestUpdateRejectsBadStatus(t *testing.T) {
	svc, _, _ := newService()
	created, err := svc.Create(context.Background(), CreateRequest{Name: "acme"})
	require.NoError(t, err)

	bad := account.Status("archived")
	_, err = svc.Update(context.Background(), created.Account.ID, UpdateRequest{Status: &bad})
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestRegenerateKeyInvalidatesOld(t *testing.T) {
	svc, _, _ := newService()
	created, err := svc.Create(context.Background(), CreateRequest{Name: "acme"})
	require.NoError(t, err)

	fresh, err := svc.RegenerateKey(context.Background(), created.Account.ID)
	require.NoError(t, err)
	assert.NotEqual(t, created.APIKey, fresh)

	_, err = svc.Authenticate(context.Background(), created.APIKey)
	assert.Error(t, err)

	a, err := svc.Authenticate(context.Background(), fresh)
	require.NoError(t, err)
	assert.Equal(t, created.Account.ID, a.ID)
}

func TestRegenerateKeyUnknownAccount(t *testing.T) {
	svc, _, _ := newService()
	_, err := svc.RegenerateKey(context.Background(), 404)
	assert.Error(t, err)
}
