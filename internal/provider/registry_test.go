package provider_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/metrics"
	"whodidit/backend/internal/models"
	"whodidit/backend/internal/provider"
	"whodidit/backend/internal/storage"
	"whodidit/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindProviderByKey(ctx context.Context, nameKey, zipKey, serviceKey string) (*models.Provider, error) {
	args := m.Called(ctx, nameKey, zipKey, serviceKey)
	if p := args.Get(0); p != nil {
		return p.(*models.Provider), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) CreateProvider(ctx context.Context, p *models.Provider) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockStore) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Provider), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) SearchProviders(ctx context.Context, nameKey, zipKey string, limit int) ([]models.Provider, error) {
	args := m.Called(ctx, nameKey, zipKey, limit)
	return args.Get(0).([]models.Provider), args.Error(1)
}

func TestResolveOrCreate_Idempotent(t *testing.T) {
	s := storagetest.NewService(t)
	r := provider.NewRegistry(s, nil, nil)
	ctx := context.Background()

	first, err := r.ResolveOrCreate(ctx, "Ava", "10001", "Hair")
	require.NoError(t, err)
	again, err := r.ResolveOrCreate(ctx, "Ava", "10001", "Hair")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	lower, err := r.ResolveOrCreate(ctx, "ava", "10001", "Hair")
	require.NoError(t, err)
	padded, err := r.ResolveOrCreate(ctx, "  AVA ", " 10001 ", "Hair ")
	require.NoError(t, err)
	assert.Equal(t, first, lower)
	assert.Equal(t, first, padded)

	p, err := r.Get(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "Ava", p.Name)
	assert.False(t, p.Claimed)
	assert.Nil(t, p.OwnerID)
}

func TestResolveOrCreate_AbsentMatchesAbsent(t *testing.T) {
	s := storagetest.NewService(t)
	r := provider.NewRegistry(s, nil, nil)
	ctx := context.Background()

	bare, err := r.ResolveOrCreate(ctx, "Ava", "", "   ")
	require.NoError(t, err)
	bareAgain, err := r.ResolveOrCreate(ctx, "ava", "  ", "")
	require.NoError(t, err)
	withZip, err := r.ResolveOrCreate(ctx, "Ava", "10001", "")
	require.NoError(t, err)

	assert.Equal(t, bare, bareAgain)
	assert.NotEqual(t, bare, withZip)

	p, err := r.Get(ctx, bare)
	require.NoError(t, err)
	assert.Nil(t, p.Zip)
	assert.Nil(t, p.Service)
}

func TestResolveOrCreate_BlankNameIsValidation(t *testing.T) {
	store := new(MockStore)
	r := provider.NewRegistry(store, nil, nil)

	_, err := r.ResolveOrCreate(context.Background(), "   ", "10001", "Hair")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	store.AssertNotCalled(t, "FindProviderByKey", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveOrCreate_DuplicateInsertRetriesLookup(t *testing.T) {
	store := new(MockStore)
	winner := &models.Provider{ID: "p-winner", Name: "Ava"}

	store.On("FindProviderByKey", mock.Anything, "ava", "10001", "Hair").Return(nil, nil).Once()
	store.On("CreateProvider", mock.Anything, mock.AnythingOfType("*models.Provider")).
		Return(fmt.Errorf("create provider: %w", storage.ErrDuplicate)).Once()
	store.On("FindProviderByKey", mock.Anything, "ava", "10001", "Hair").Return(winner, nil).Once()

	m := metrics.New()
	r := provider.NewRegistry(store, m, nil)

	id, err := r.ResolveOrCreate(context.Background(), "Ava", "10001", "Hair")
	require.NoError(t, err)
	assert.Equal(t, "p-winner", id)
	store.AssertExpectations(t)
}

func TestResolveOrCreate_GivesUpAfterBoundedAttempts(t *testing.T) {
	store := new(MockStore)
	store.On("FindProviderByKey", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	store.On("CreateProvider", mock.Anything, mock.Anything).Return(storage.ErrDuplicate)

	r := provider.NewRegistry(store, nil, nil)
	_, err := r.ResolveOrCreate(context.Background(), "Ava", "", "")

	assert.ErrorIs(t, err, apperr.ErrStorage)
	store.AssertNumberOfCalls(t, "CreateProvider", 3)
}

func TestResolveOrCreate_StorageErrorPropagates(t *testing.T) {
	store := new(MockStore)
	boom := apperr.Storage("find provider", errors.New("connection refused"))
	store.On("FindProviderByKey", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	r := provider.NewRegistry(store, nil, nil)
	_, err := r.ResolveOrCreate(context.Background(), "Ava", "", "")
	assert.ErrorIs(t, err, apperr.ErrStorage)
	store.AssertNotCalled(t, "CreateProvider", mock.Anything, mock.Anything)
}

func TestResolveOrCreate_ConcurrentCallersShareOneRow(t *testing.T) {
	s := storagetest.NewService(t)
	r := provider.NewRegistry(s, nil, nil)
	ctx := context.Background()

	const callers = 10
	ids := make([]string, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = r.ResolveOrCreate(ctx, "Ava", "10001", "Hair")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, s.DB.Model(&models.Provider{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSearch_ClampsLimit(t *testing.T) {
	store := new(MockStore)
	store.On("SearchProviders", mock.Anything, "ava", "10001", 20).Return([]models.Provider{{ID: "p"}}, nil)

	r := provider.NewRegistry(store, nil, nil)
	got, err := r.Search(context.Background(), " Ava ", "10001", 500)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = r.Search(context.Background(), "  ", "", 5)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	store.AssertExpectations(t)
}
