package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"therapyhub-menus/database"
	"therapyhub-menus/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMenu(t *testing.T, repo MenuRepository, title, route string, parentID *uint) models.Menu {
	t.Helper()
	m := models.Menu{Title: title, Route: route, ParentID: parentID, IsActive: true, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), &m))
	require.NotZero(t, m.ID)
	return m
}

func TestMenuRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMenuRepository(database.SetupTestDB(t))

	root := newMenu(t, repo, "Root", "#", nil)
	child := newMenu(t, repo, "Child", "/child", &root.ID)
	other := newMenu(t, repo, "Other", "/other", nil)

	t.Run("FindByID", func(t *testing.T) {
		got, err := repo.FindByID(ctx, child.ID)
		require.NoError(t, err)
		assert.Equal(t, "Child", got.Title)
		require.NotNil(t, got.ParentID)
		assert.Equal(t, root.ID, *got.ParentID)

		_, err = repo.FindByID(ctx, 999)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})

	t.Run("FindSiblings", func(t *testing.T) {
		top, err := repo.FindSiblings(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, top, 2)

		under, err := repo.FindSiblings(ctx, &root.ID)
		require.NoError(t, err)
		require.Len(t, under, 1)
		assert.Equal(t, child.ID, under[0].ID)
	})

	t.Run("ExistsByRoute", func(t *testing.T) {
		exists, err := repo.ExistsByRoute(ctx, "/child", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByRoute(ctx, "/child", &child.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("HasChildren", func(t *testing.T) {
		has, err := repo.HasChildren(ctx, root.ID)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = repo.HasChildren(ctx, other.ID)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("UpdateSortOrder", func(t *testing.T) {
		require.NoError(t, repo.UpdateSortOrder(ctx, other.ID, 7))
		got, err := repo.FindByID(ctx, other.ID)
		require.NoError(t, err)
		require.NotNil(t, got.SortOrder)
		assert.Equal(t, 7, *got.SortOrder)
	})

	t.Run("FindActive", func(t *testing.T) {
		got, err := repo.FindByID(ctx, other.ID)
		require.NoError(t, err)
		got.IsActive = false
		require.NoError(t, repo.Update(ctx, got))

		active, err := repo.FindActive(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 2)
	})
}

func TestAssignmentRepository(t *testing.T) {
	ctx := context.Background()
	db := database.SetupTestDB(t)
	menus := NewMenuRepository(db)
	repo := NewAssignmentRepository(db)

	a := newMenu(t, menus, "A", "/a", nil)
	b := newMenu(t, menus, "B", "/b", nil)

	require.NoError(t, repo.CreateBatch(ctx, nil))
	require.NoError(t, repo.CreateBatch(ctx, []models.UserTypeMenu{
		{UserTypeID: 1, MenuID: b.ID, AssignedAt: time.Now()},
		{UserTypeID: 1, MenuID: a.ID, AssignedAt: time.Now()},
		{UserTypeID: 2, MenuID: a.ID, AssignedAt: time.Now()},
	}))

	ids, err := repo.FindMenuIDsByUserType(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, ids)

	require.NoError(t, repo.DeleteByMenu(ctx, a.ID))
	ids, err = repo.FindMenuIDsByUserType(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, repo.DeleteByUserType(ctx, 1))
	ids, err = repo.FindMenuIDsByUserType(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFindActiveMenusByUserType(t *testing.T) {
	ctx := context.Background()
	db := database.SetupTestDB(t)
	menus := NewMenuRepository(db)
	repo := NewAssignmentRepository(db)

	a := newMenu(t, menus, "A", "/a", nil)
	b := newMenu(t, menus, "B", "/b", nil)
	b.IsActive = false
	require.NoError(t, menus.Update(ctx, &b))

	require.NoError(t, repo.CreateBatch(ctx, []models.UserTypeMenu{
		{UserTypeID: 3, MenuID: a.ID, AssignedAt: time.Now()},
		{UserTypeID: 3, MenuID: b.ID, AssignedAt: time.Now()},
	}))

	got, err := repo.FindActiveMenusByUserType(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
}

func TestUserTypeRepositoryExistsByName(t *testing.T) {
	ctx := context.Background()
	repo := NewUserTypeRepository(database.SetupTestDB(t))

	ut := models.UserType{Name: "Therapist", IsActive: true, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &ut))

	exists, err := repo.ExistsByName(ctx, "THERAPIST", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "therapist", &ut.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnitOfWorkRollsBack(t *testing.T) {
	ctx := context.Background()
	uow := NewUnitOfWork(database.SetupTestDB(t))
	boom := errors.New("boom")

	err := uow.Transaction(ctx, func(tx UnitOfWork) error {
		m := models.Menu{Title: "Temp", Route: "/temp", IsActive: true, CreatedAt: time.Now()}
		if err := tx.Menus().Create(ctx, &m); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := uow.Menus().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRouteUniqueIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewMenuRepository(database.SetupTestDB(t))

	newMenu(t, repo, "Reports", "/reports", nil)
	dup := models.Menu{Title: "Reports again", Route: "/reports", IsActive: true, CreatedAt: time.Now()}
	assert.ErrorIs(t, repo.Create(ctx, &dup), gorm.ErrDuplicatedKey)

	newMenu(t, repo, "Group one", models.ContainerRoute, nil)
	newMenu(t, repo, "Group two", models.ContainerRoute, nil)
}
