package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taste-tribe/internal/database/dbtest"
	"taste-tribe/internal/model"
)

func seedUser(t *testing.T, db *gorm.DB, username string) model.User {
	t.Helper()
	u := model.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), &u))
	return u
}

func seedRecipe(t *testing.T, db *gorm.DB, ownerID string, title string) model.Recipe {
	t.Helper()
	r := model.Recipe{UserID: ownerID, Title: title, Ingredients: "flour, water"}
	require.NoError(t, NewRecipeRepository(db).Create(context.Background(), &r))
	return r
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("lookup by username or email ignores case", func(t *testing.T) {
		db := dbtest.New(t).Gorm
		repo := NewUserRepository(db)
		alice := seedUser(t, db, "alice")

		byName, err := repo.FindByUsernameOrEmail(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byName.ID)

		byEmail, err := repo.FindByUsernameOrEmail(ctx, "Alice@Example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byEmail.ID)

		_, err = repo.FindByUsernameOrEmail(ctx, "")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		db := dbtest.New(t).Gorm
		repo := NewUserRepository(db)
		seedUser(t, db, "alice")

		dup := model.User{Username: "alice", Email: "other@example.com", PasswordHash: "hash"}
		assert.ErrorIs(t, repo.Create(ctx, &dup), model.ErrUserAlreadyExists)

		exists, err := repo.ExistsByUsernameOrEmail(ctx, "bob", "alice@example.com", "")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("delete cascades and recounts touched recipes", func(t *testing.T) {
		db := dbtest.New(t).Gorm
		users := NewUserRepository(db)
		alice := seedUser(t, db, "alice")
		bob := seedUser(t, db, "bob")
		bobs := seedRecipe(t, db, bob.ID, "Bread")
		alices := seedRecipe(t, db, alice.ID, "Soup")

		_, _, err := NewLikeRepository(db).Add(ctx, alice.ID, bobs.ID)
		require.NoError(t, err)
		_, err = NewRatingRepository(db).Upsert(ctx, alice.ID, bobs.ID, 4)
		require.NoError(t, err)

		require.NoError(t, users.Delete(ctx, alice.ID))

		_, err = users.FindByID(ctx, alice.ID)
		assert.ErrorIs(t, err, model.ErrUserNotFound)
		_, err = NewRecipeRepository(db).FindByID(ctx, alices.ID)
		assert.ErrorIs(t, err, model.ErrRecipeNotFound)

		reloaded, err := NewRecipeRepository(db).FindByID(ctx, bobs.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, reloaded.LikeCount)
		assert.Equal(t, 0, reloaded.RatingCount)

		assert.ErrorIs(t, users.Delete(ctx, alice.ID), model.ErrUserNotFound)
	})
}

func TestRecipeRepository_List(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t).Gorm
	repo := NewRecipeRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedRecipe(t, db, alice.ID, "Tomato Soup")
	seedRecipe(t, db, bob.ID, "Sourdough")
	seedRecipe(t, db, bob.ID, "Pancakes")

	all, total, err := repo.List(ctx, model.RecipeQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.EqualValues(t, 3, total)

	found, total, err := repo.List(ctx, model.RecipeQuery{Search: "SOU"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 2)

	mine, _, err := repo.List(ctx, model.RecipeQuery{UserID: bob.ID, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, bob.ID, mine[0].UserID)
}

func TestEngagementRepositories(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t).Gorm
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	recipe := seedRecipe(t, db, bob.ID, "Bread")

	t.Run("bookmarks are idempotent", func(t *testing.T) {
		repo := NewBookmarkRepository(db)

		created, err := repo.Add(ctx, alice.ID, recipe.ID)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repo.Add(ctx, alice.ID, recipe.ID)
		require.NoError(t, err)
		assert.False(t, created)

		listed, err := NewRecipeRepository(db).ListBookmarkedBy(ctx, alice.ID, 0)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.True(t, listed[0].Bookmarked)

		require.NoError(t, repo.Remove(ctx, alice.ID, recipe.ID))
		require.NoError(t, repo.Remove(ctx, alice.ID, recipe.ID))
		exists, err := repo.Exists(ctx, alice.ID, recipe.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("likes maintain the recipe counter", func(t *testing.T) {
		repo := NewLikeRepository(db)

		_, count, err := repo.Add(ctx, alice.ID, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		created, count, err := repo.Add(ctx, alice.ID, recipe.ID)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 1, count)

		_, count, err = repo.Add(ctx, bob.ID, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		liked, err := repo.RecipeIDsFor(ctx, alice.ID, []string{recipe.ID, "missing"})
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{recipe.ID: true}, liked)

		count, err = repo.Remove(ctx, alice.ID, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("ratings are replaced and averaged", func(t *testing.T) {
		repo := NewRatingRepository(db)

		result, err := repo.Upsert(ctx, alice.ID, recipe.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 5.0, result.Rating)
		assert.Equal(t, 1, result.RatingCount)

		result, err = repo.Upsert(ctx, bob.ID, recipe.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 3.5, result.Rating)

		result, err = repo.Upsert(ctx, alice.ID, recipe.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, 2.5, result.Rating)
		assert.Equal(t, 2, result.RatingCount)
		assert.Equal(t, 3, result.Value)
	})

	t.Run("comments carry their author", func(t *testing.T) {
		repo := NewCommentRepository(db)
		comment := model.Comment{UserID: alice.ID, RecipeID: recipe.ID, Content: "Great crust"}
		require.NoError(t, repo.Create(ctx, &comment))

		list, total, err := repo.ListByRecipe(ctx, recipe.ID, 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "alice", list[0].Author)

		require.NoError(t, repo.UpdateContent(ctx, comment.ID, "Great crumb"))
		reloaded, err := repo.FindByID(ctx, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, "Great crumb", reloaded.Content)

		require.NoError(t, repo.Delete(ctx, comment.ID))
		assert.ErrorIs(t, repo.Delete(ctx, comment.ID), model.ErrCommentNotFound)
	})
}

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t).Gorm
	repo := NewNotificationRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	first := model.Notification{UserID: bob.ID, ActorID: alice.ID, Kind: model.NotificationLike, Message: "alice liked your recipe"}
	second := model.Notification{UserID: bob.ID, ActorID: alice.ID, Kind: model.NotificationComment, Message: "alice commented"}
	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))

	unread, err := repo.CountUnread(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	assert.ErrorIs(t, repo.MarkRead(ctx, first.ID, alice.ID), model.ErrNotificationNotFound)
	require.NoError(t, repo.MarkRead(ctx, first.ID, bob.ID))

	items, total, err := repo.ListByUser(ctx, bob.ID, true, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)

	changed, err := repo.MarkAllRead(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)

	assert.ErrorIs(t, repo.Delete(ctx, first.ID, alice.ID), model.ErrNotificationNotFound)
	require.NoError(t, repo.Delete(ctx, first.ID, bob.ID))
}

func TestAuditRepository_Query(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t).Gorm
	repo := NewAuditRepository(db)

	for _, action := range []string{"admin.user.delete", "admin.user.role", "admin.recipe.delete"} {
		require.NoError(t, repo.Create(ctx, &model.AuditEntry{Action: action, ActorID: "admin-1", Status: "success"}))
	}

	entries, total, err := repo.Query(ctx, model.AuditQuery{Action: "admin.user"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, entries, 2)

	_, total, err = repo.Query(ctx, model.AuditQuery{ActorID: "nobody"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
