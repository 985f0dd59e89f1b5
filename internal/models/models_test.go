package models

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagedList_TotalPages(t *testing.T) {
	tests := []struct {
		count    int64
		size     int
		expected int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{3, 2, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		page := NewPagedList[int](nil, tt.count, 1, tt.size)
		assert.Equal(t, tt.expected, page.TotalPages, "count=%d size=%d", tt.count, tt.size)
		assert.NotNil(t, page.Items)
	}

	page := NewPagedList([]string{"a"}, 3, 2, 2)
	assert.Equal(t, PaginationHeader{CurrentPage: 2, ItemsPerPage: 2, TotalItems: 3, TotalPages: 2}, page.Header())
}

func TestPaginationParams_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		in         PaginationParams
		want       PaginationParams
		wantOffset int
	}{
		{"defaults", PaginationParams{}, PaginationParams{PageNumber: 1, PageSize: DefaultPageSize}, 0},
		{"negative", PaginationParams{PageNumber: -4, PageSize: -1}, PaginationParams{PageNumber: 1, PageSize: DefaultPageSize}, 0},
		{"size capped", PaginationParams{PageNumber: 3, PageSize: 500}, PaginationParams{PageNumber: 3, PageSize: MaxPageSize}, 2 * MaxPageSize},
		{"huge page number", PaginationParams{PageNumber: math.MaxInt, PageSize: MaxPageSize},
			PaginationParams{PageNumber: MaxPageNumber, PageSize: MaxPageSize}, (MaxPageNumber - 1) * MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Normalize()
			assert.Equal(t, tt.want, p)
			assert.Equal(t, tt.wantOffset, p.Offset())
			assert.GreaterOrEqual(t, p.Offset(), 0)
		})
	}
}

func TestPaginationHeader_JSONShape(t *testing.T) {
	raw, err := json.Marshal(PaginationHeader{CurrentPage: 1, ItemsPerPage: 10, TotalItems: 4, TotalPages: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"currentPage":1,"itemsPerPage":10,"totalItems":4,"totalPages":1}`, string(raw))
}

func TestUser_Age(t *testing.T) {
	u := &User{DateOfBirth: time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 33, u.Age(time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 34, u.Age(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, (&User{}).Age(time.Now()))
}

func TestNewMemberDTO_UsesMainPhoto(t *testing.T) {
	u := &User{
		ID:       4,
		Username: "lisa",
		Photos: []Photo{
			{URL: "https://img/1.jpg"},
			{URL: "https://img/2.jpg", IsMain: true},
		},
	}
	dto := NewMemberDTO(u, time.Now())
	assert.Equal(t, "https://img/2.jpg", dto.PhotoURL)

	u.Photos[1].IsMain = false
	assert.Nil(t, u.MainPhoto())
	assert.Empty(t, NewMemberDTO(u, time.Now()).PhotoURL)
}

func TestLikesPredicate_Valid(t *testing.T) {
	for _, p := range []LikesPredicate{PredicateLiked, PredicateLikedBy, PredicateMutual} {
		assert.True(t, p.Valid(), p)
	}
	assert.False(t, LikesPredicate("").Valid())
	assert.False(t, LikesPredicate("LIKED").Valid())
}

func TestAppError(t *testing.T) {
	cause := errors.New("unique violation")
	err := NewOperationError("Record already exists", cause)
	assert.Equal(t, "Record already exists: unique violation", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := errors.Join(errors.New("outer"), NewNotFoundError("User", 7))
	assert.True(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
	assert.Equal(t, "User with ID 7 not found", NewNotFoundError("User", 7).Error())
}

func TestRespondWithError(t *testing.T) {
	app := fiber.New()
	app.Get("/app", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusBadRequest, NewOperationError("Failed to update like", errors.New("boom")))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, errors.New("boom"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/app", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to update like","code":"OPERATION_ERROR","details":"boom"}`, string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/plain", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"boom"}`, string(body))
}
