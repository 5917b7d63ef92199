package badger

import (
	"context"
	"testing"

	"github.com/poiesic/posfind/core"
	"github.com/poiesic/posfind/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTree builds:
//
//	Furniture
//	├── Chairs
//	│   └── Office Chairs
//	└── Desks
//	Food
func seedTree(t *testing.T, repo storage.CategoryRepository) map[string]*core.Category {
	t.Helper()
	ctx := context.Background()

	furniture := &core.Category{Name: "Furniture"}
	food := &core.Category{Name: "Food"}
	_, err := repo.AddCategories(ctx, furniture, food)
	require.NoError(t, err)

	chairs := &core.Category{Name: "Chairs", ParentId: furniture.Id}
	desks := &core.Category{Name: "Desks", ParentId: furniture.Id}
	_, err = repo.AddCategories(ctx, chairs, desks)
	require.NoError(t, err)

	office := &core.Category{Name: "Office Chairs", ParentId: chairs.Id}
	_, err = repo.AddCategories(ctx, office)
	require.NoError(t, err)

	return map[string]*core.Category{
		"furniture": furniture,
		"food":      food,
		"chairs":    chairs,
		"desks":     desks,
		"office":    office,
	}
}

func names(categories []*core.Category) []string {
	result := make([]string, len(categories))
	for i, c := range categories {
		result[i] = c.Name
	}
	return result
}

func TestAddCategories_PathBasedIDs(t *testing.T) {
	_, categoryRepo := newTestRepos(t)
	ctx := context.Background()

	tree := seedTree(t, categoryRepo)
	assert.Equal(t, core.CategoryIDFromPath(0, "Furniture"), tree["furniture"].Id)
	assert.Equal(t, core.CategoryIDFromPath(tree["furniture"].Id, "Chairs"), tree["chairs"].Id)

	// Same name under a different parent is a different category
	other := &core.Category{Name: "Chairs", ParentId: tree["food"].Id}
	_, err := categoryRepo.AddCategories(ctx, other)
	require.NoError(t, err)
	assert.NotEqual(t, tree["chairs"].Id, other.Id)

	got, err := categoryRepo.GetCategory(ctx, tree["desks"].Id)
	require.NoError(t, err)
	assert.Equal(t, "Desks", got.Name)
	assert.Equal(t, tree["furniture"].Id, got.ParentId)
	assert.False(t, got.InsertedAt.IsZero())
}

func TestGetChildCategories(t *testing.T) {
	_, categoryRepo := newTestRepos(t)
	ctx := context.Background()
	tree := seedTree(t, categoryRepo)

	roots, err := categoryRepo.GetChildCategories(ctx, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Furniture", "Food"}, names(roots))

	children, err := categoryRepo.GetChildCategories(ctx, tree["furniture"].Id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Chairs", "Desks"}, names(children))

	leaf, err := categoryRepo.GetChildCategories(ctx, tree["desks"].Id)
	require.NoError(t, err)
	assert.Empty(t, leaf)
}

func TestGetCategoryTree(t *testing.T) {
	_, categoryRepo := newTestRepos(t)
	ctx := context.Background()
	tree := seedTree(t, categoryRepo)

	t.Run("breadth first from root", func(t *testing.T) {
		got, err := categoryRepo.GetCategoryTree(ctx, tree["furniture"].Id)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, "Furniture", got[0].Name)
		assert.ElementsMatch(t, []string{"Chairs", "Desks"}, names(got[1:3]))
		assert.Equal(t, "Office Chairs", got[3].Name)
	})

	t.Run("leaf", func(t *testing.T) {
		got, err := categoryRepo.GetCategoryTree(ctx, tree["office"].Id)
		require.NoError(t, err)
		assert.Equal(t, []string{"Office Chairs"}, names(got))
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := categoryRepo.GetCategoryTree(ctx, 12345)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestGetCategoryTree_Cycle(t *testing.T) {
	_, categoryRepo := newTestRepos(t)
	ctx := context.Background()

	_, err := categoryRepo.AddCategories(ctx,
		&core.Category{Id: 1, Name: "A", ParentId: 2},
		&core.Category{Id: 2, Name: "B", ParentId: 1},
	)
	require.NoError(t, err)

	got, err := categoryRepo.GetCategoryTree(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(got))
}

func TestAddCategories_Reparent(t *testing.T) {
	_, categoryRepo := newTestRepos(t)
	ctx := context.Background()
	tree := seedTree(t, categoryRepo)

	moved := *tree["desks"]
	moved.ParentId = tree["food"].Id
	_, err := categoryRepo.AddCategories(ctx, &moved)
	require.NoError(t, err)

	furnitureChildren, err := categoryRepo.GetChildCategories(ctx, tree["furniture"].Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chairs"}, names(furnitureChildren))

	foodChildren, err := categoryRepo.GetChildCategories(ctx, tree["food"].Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Desks"}, names(foodChildren))
}

func TestDeleteCategories(t *testing.T) {
	_, categoryRepo := newTestRepos(t)
	ctx := context.Background()
	tree := seedTree(t, categoryRepo)

	require.NoError(t, categoryRepo.DeleteCategories(ctx, tree["food"].Id))

	_, err := categoryRepo.GetCategory(ctx, tree["food"].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	roots, err := categoryRepo.GetChildCategories(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Furniture"}, names(roots))

	err = categoryRepo.DeleteCategories(ctx, tree["food"].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListCategories(t *testing.T) {
	_, categoryRepo := newTestRepos(t)
	ctx := context.Background()
	seedTree(t, categoryRepo)

	all, err := categoryRepo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Id, all[i].Id)
	}
}
