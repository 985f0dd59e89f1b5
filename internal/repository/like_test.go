package repository

import (
	"context"
	"testing"

	"heartline/internal/models"
	"heartline/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_GetCurrentUserLikeIDs(t *testing.T) {
	db := testutil.OpenTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	testutil.CreateLike(t, db, alice.ID, carol.ID)
	testutil.CreateLike(t, db, alice.ID, bob.ID)
	testutil.CreateLike(t, db, bob.ID, alice.ID)

	repo := NewUnitOfWork(db).Likes()
	ids, err := repo.GetCurrentUserLikeIDs(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID, carol.ID}, ids)

	ids, err = repo.GetCurrentUserLikeIDs(context.Background(), carol.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLikeRepository_GetUserLikes(t *testing.T) {
	db := testutil.OpenTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	dave := testutil.CreateUser(t, db, "dave")
	testutil.CreatePhoto(t, db, bob.ID, nil, true, true)

	// alice likes bob and carol; bob and dave like alice
	testutil.CreateLike(t, db, alice.ID, bob.ID)
	testutil.CreateLike(t, db, alice.ID, carol.ID)
	testutil.CreateLike(t, db, bob.ID, alice.ID)
	testutil.CreateLike(t, db, dave.ID, alice.ID)

	repo := NewUnitOfWork(db).Likes()
	ctx := context.Background()

	firstPage := func(predicate models.LikesPredicate) models.LikesParams {
		params := models.LikesParams{UserID: alice.ID, Predicate: predicate}
		params.Normalize()
		return params
	}
	usernames := func(p models.PagedList[models.MemberDTO]) []string {
		out := []string{}
		for _, m := range p.Items {
			out = append(out, m.Username)
		}
		return out
	}

	tests := []struct {
		name      string
		predicate models.LikesPredicate
		want      []string
	}{
		{"liked", models.PredicateLiked, []string{"bob", "carol"}},
		{"liked by", models.PredicateLikedBy, []string{"bob", "dave"}},
		{"mutual", models.PredicateMutual, []string{"bob"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.GetUserLikes(ctx, firstPage(tt.predicate))
			require.NoError(t, err)
			assert.Equal(t, tt.want, usernames(page))
			assert.Equal(t, int64(len(tt.want)), page.TotalCount)
			assert.Equal(t, 1, page.CurrentPage)
			assert.Equal(t, models.DefaultPageSize, page.PageSize)
			assert.Equal(t, 1, page.TotalPages)
		})
	}

	t.Run("main photo is projected", func(t *testing.T) {
		page, err := repo.GetUserLikes(ctx, firstPage(models.PredicateMutual))
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "https://img.example.com/p.jpg", page.Items[0].PhotoURL)
	})

	t.Run("paging", func(t *testing.T) {
		params := models.LikesParams{UserID: alice.ID, Predicate: models.PredicateLiked}
		params.PageNumber, params.PageSize = 2, 1
		page, err := repo.GetUserLikes(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, []string{"carol"}, usernames(page))
		assert.Equal(t, int64(2), page.TotalCount)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, 2, page.CurrentPage)
	})
}
