package likesclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"heartline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  map[string][]string
	auth   string
}

func newTestAPI(t *testing.T) (*httptest.Server, func() []recorded) {
	t.Helper()
	var (
		mu  sync.Mutex
		log []recorded
	)
	mux := http.NewServeMux()
	record := func(r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		log = append(log, recorded{r.Method, r.URL.Path, r.URL.Query(), r.Header.Get("Authorization")})
	}
	mux.HandleFunc("/api/likes/list", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		_ = json.NewEncoder(w).Encode([]uint{2, 5})
	})
	mux.HandleFunc("/api/likes/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if r.URL.Path == "/api/likes/1" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "You cannot like yourself", Code: models.CodeValidation})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"liked": true})
	})
	mux.HandleFunc("/api/likes", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Header().Set("Pagination", `{"currentPage":2,"itemsPerPage":1,"totalItems":3,"totalPages":3}`)
		_ = json.NewEncoder(w).Encode([]models.MemberDTO{{ID: 7, Username: "todd"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), log...)
	}
}

func TestClient_ToggleLike(t *testing.T) {
	srv, log := newTestAPI(t)
	c := NewClient(srv.URL+"/api/", "tok")

	require.NoError(t, c.ToggleLike(context.Background(), 7))
	calls := log()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, "/api/likes/7", calls[0].path)
	assert.Equal(t, "Bearer tok", calls[0].auth)

	// No local state changes on toggle.
	assert.Nil(t, c.LikeIDs.Get())

	err := c.ToggleLike(context.Background(), 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "You cannot like yourself", apiErr.Message)
	assert.Equal(t, models.CodeValidation, apiErr.Code)
}

func TestClient_GetLikes(t *testing.T) {
	srv, log := newTestAPI(t)
	c := NewClient(srv.URL+"/api", "tok")

	result, err := c.GetLikes(context.Background(), models.PredicateLiked, 2, 1)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "todd", result.Items[0].Username)
	require.NotNil(t, result.Pagination)
	assert.Equal(t, models.PaginationHeader{CurrentPage: 2, ItemsPerPage: 1, TotalItems: 3, TotalPages: 3}, *result.Pagination)
	assert.Same(t, result, c.Paginated.Get())

	q := log()[0].query
	assert.Equal(t, []string{"2"}, q["pageNumber"])
	assert.Equal(t, []string{"1"}, q["pageSize"])
	assert.Equal(t, []string{"liked"}, q["predicate"])

	_, err = c.GetLikes(context.Background(), models.PredicateMutual, 3, 0)
	require.NoError(t, err)
	q = log()[1].query
	assert.NotContains(t, q, "pageNumber")
	assert.NotContains(t, q, "pageSize")
	assert.Equal(t, []string{"mutual"}, q["predicate"])
}

func TestClient_GetLikeIDs(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := NewClient(srv.URL+"/api", "tok")

	updates, cancel := c.LikeIDs.Subscribe()
	defer cancel()

	ids, err := c.GetLikeIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 5}, ids)
	assert.Equal(t, []uint{2, 5}, c.LikeIDs.Get())

	select {
	case got := <-updates:
		assert.Equal(t, []uint{2, 5}, got)
	case <-time.After(time.Second):
		t.Fatal("no state update delivered")
	}
}

func TestState_SubscribersSeeLatest(t *testing.T) {
	s := NewState(0)
	ch, cancel := s.Subscribe()

	s.Set(1)
	s.Set(2)
	assert.Equal(t, 2, s.Get())
	assert.Equal(t, 2, <-ch)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	// Setting after unsubscribe must not block or panic.
	s.Set(3)
	assert.Equal(t, 3, s.Get())
}

func TestState_ConcurrentSet(t *testing.T) {
	s := NewState(0)
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			s.Set(v)
			_ = s.Get()
		}(i)
	}
	wg.Wait()
	assert.NotZero(t, s.Get())
}
