package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

func TestCollection_InsertPreservesOrder(t *testing.T) {
	repo := NewCustomerRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, domain.Customer{Name: fmt.Sprintf("c%d", i)})
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, c := range list {
		assert.Equal(t, fmt.Sprintf("c%d", i), c.Name)
		assert.NotEmpty(t, c.ID)
	}
}

func TestCollection_ListIsSnapshot(t *testing.T) {
	repo := NewDealRepository()
	ctx := context.Background()
	_, err := repo.Create(ctx, domain.Deal{Title: "a"})
	require.NoError(t, err)

	list, _ := repo.List(ctx)
	list[0].Title = "mutated"

	again, _ := repo.List(ctx)
	assert.Equal(t, "a", again[0].Title)
}

func TestCollection_ConcurrentCreateUniqueIDs(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	const workers, perWorker = 16, 50
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := repo.Create(ctx, domain.Task{Title: "t"}); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, workers*perWorker)

	seen := make(map[string]struct{}, len(list))
	for _, task := range list {
		_, dup := seen[task.ID]
		require.False(t, dup, "duplicate id %s", task.ID)
		seen[task.ID] = struct{}{}
	}
}

func TestCollection_RetriesOnCollision(t *testing.T) {
	col := NewCollection[domain.Customer]()
	require.NoError(t, col.Seed(domain.Customer{ID: "fixed"}))

	ids := []string{"fixed", "fixed", "fresh"}
	col.newID = func() (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}

	c, err := col.Insert(func(id string) domain.Customer { return domain.Customer{ID: id} })
	require.NoError(t, err)
	assert.Equal(t, "fresh", c.ID)
	assert.Equal(t, 2, col.Len())
}

func TestCollection_GivesUpAfterRepeatedCollisions(t *testing.T) {
	col := NewCollection[domain.Customer]()
	require.NoError(t, col.Seed(domain.Customer{ID: "fixed"}))
	col.newID = func() (string, error) { return "fixed", nil }

	_, err := col.Insert(func(id string) domain.Customer { return domain.Customer{ID: id} })
	require.Error(t, err)
	assert.Equal(t, 1, col.Len())
}

func TestCollection_SeedRejectsDuplicates(t *testing.T) {
	col := NewCollection[domain.Deal]()
	err := col.Seed(domain.Deal{ID: "1"}, domain.Deal{ID: "1"})
	require.Error(t, err)
}

func TestAuthRepository_UniqueEmail(t *testing.T) {
	repo := NewAuthRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Email: "a@example.com", Name: "A"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, &domain.User{Email: "a@example.com", Name: "B"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	// case-sensitive as stored
	_, err = repo.Create(ctx, &domain.User{Email: "A@example.com", Name: "C"})
	assert.NoError(t, err)

	found, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "A", found.Name)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, byID.Email)

	_, err = repo.FindByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.FindByID(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAuthRepository_ConcurrentDuplicateRegistration(t *testing.T) {
	repo := NewAuthRepository()
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Create(ctx, &domain.User{Email: "race@example.com"}); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
}

func TestStore_SeedDemo(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.SeedDemo(ctx, DemoUser{Name: "Demo User", Email: "demo@moderncrm.com", Password: "demo123"}))

	u, err := store.Users.FindByEmail(ctx, "demo@moderncrm.com")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.Equal(t, "D", u.Avatar)
	assert.NotEqual(t, "demo123", u.PasswordHash)
	assert.WithinDuration(t, time.Now(), u.CreatedAt, time.Minute)

	customers, _ := store.Customers.List(ctx)
	deals, _ := store.Deals.List(ctx)
	tasks, _ := store.Tasks.List(ctx)
	assert.Len(t, customers, 5)
	assert.Len(t, deals, 5)
	assert.Len(t, tasks, 3)

	// a second seed would duplicate the demo email
	assert.Error(t, store.SeedDemo(ctx, DemoUser{Name: "Demo User", Email: "demo@moderncrm.com", Password: "demo123"}))
}
