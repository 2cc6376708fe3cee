package client_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/maxviazov/campaign-site/internal/apitest"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/pkg/client"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func newClient(t *testing.T, srv *apitest.Server, opts ...client.Option) *client.Client {
	t.Helper()
	opts = append([]client.Option{client.WithTokenSource(client.StaticToken(apitest.AdminToken))}, opts...)
	c, err := client.New(client.Config{BaseURL: srv.BaseURL}, zerolog.Nop(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func seedPhotos(t *testing.T, c *client.Client, n int) []model.Photo {
	t.Helper()
	out := make([]model.Photo, 0, n)
	for i := 0; i < n; i++ {
		p, err := c.Photos().Create(context.Background(), model.Photo{
			Content:  model.Content{Title: fmt.Sprintf("Photo %02d", i), Published: true},
			ImageURL: fmt.Sprintf("https://cdn.example.org/%d.jpg", i),
		})
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func seedPress(t *testing.T, c *client.Client, category string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := c.Press().Create(context.Background(), model.PressArticle{
			Content:    model.Content{Title: fmt.Sprintf("%s story %d", category, i), Category: category, Published: true},
			Outlet:     "Gazette",
			ArticleURL: "https://gazette.example.org/" + category,
		})
		require.NoError(t, err)
	}
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := client.New(client.Config{}, zerolog.Nop())
	require.Error(t, err)
	_, err = client.New(client.Config{BaseURL: "not a url"}, zerolog.Nop())
	require.Error(t, err)
}

func TestList_EmptyQuerySendsNoParameters(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)

	page, err := c.Photos().List(context.Background(), model.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, []string{"GET /api/v1/photos"}, srv.Paths())
}

func TestList_CanonicalQueryAndServerPagination(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	seedPress(t, c, "healthcare", 8)
	seedPress(t, c, "economy", 3)
	srv.ResetLog()

	page, err := c.Press().List(context.Background(), model.ListQuery{Category: "healthcare", Page: 2, Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /api/v1/press?page=2&limit=6&category=healthcare"}, srv.Paths())
	if diff := cmp.Diff(model.Pagination{CurrentPage: 2, TotalPages: 2, TotalCount: 8, HasPrev: true}, page.Pagination); diff != "" {
		t.Fatalf("pagination mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, page.Items, 2)
}

func TestList_CachedUntilInvalidated(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	seedPhotos(t, c, 2)
	ctx := context.Background()
	srv.ResetLog()

	_, err := c.Photos().List(ctx, model.ListQuery{})
	require.NoError(t, err)
	_, err = c.Photos().List(ctx, model.ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, srv.Requests(), "second read must be served from cache")

	// a different query is a different cache entry
	_, err = c.Photos().List(ctx, model.ListQuery{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, srv.Requests())
}

func TestList_ExpiresAfterTTL(t *testing.T) {
	srv := apitest.New(t)
	var mu sync.Mutex
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	c, err := client.New(client.Config{BaseURL: srv.BaseURL, CacheTTL: time.Minute}, zerolog.Nop(), client.WithClock(clock))
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	_, err = c.Videos().List(ctx, model.ListQuery{})
	require.NoError(t, err)
	_, err = c.Videos().List(ctx, model.ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, srv.Requests())

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()
	_, err = c.Videos().List(ctx, model.ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, srv.Requests())
}

func TestUpdate_NextReadSeesNewData(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	seedPress(t, c, "healthcare", 1)
	ctx := context.Background()

	before, err := c.Press().List(ctx, model.ListQuery{Category: "healthcare"})
	require.NoError(t, err)
	require.Len(t, before.Items, 1)
	item := before.Items[0]
	got, err := c.Press().Get(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, item.Title, got.Title)

	item.Title = "Clinic funding secured"
	_, err = c.Press().Update(ctx, item.ID, item)
	require.NoError(t, err)

	after, err := c.Press().List(ctx, model.ListQuery{Category: "healthcare"})
	require.NoError(t, err)
	titles := []string{}
	for _, it := range after.Items {
		titles = append(titles, it.Title)
	}
	if diff := cmp.Diff([]string{"Clinic funding secured"}, titles); diff != "" {
		t.Fatalf("list not refreshed (-want +got):\n%s", diff)
	}
	got, err = c.Press().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clinic funding secured", got.Title)
}

func TestMutation_LeavesOtherKindsCached(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	ctx := context.Background()

	_, err := c.Photos().List(ctx, model.ListQuery{})
	require.NoError(t, err)
	_, err = c.Press().List(ctx, model.ListQuery{})
	require.NoError(t, err)

	seedPress(t, c, "economy", 1)
	srv.ResetLog()

	_, err = c.Photos().List(ctx, model.ListQuery{})
	require.NoError(t, err)
	_, err = c.Press().List(ctx, model.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /api/v1/press"}, srv.Paths(), "only press lists are refetched")
}

func TestDelete_InvalidatesItem(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	photos := seedPhotos(t, c, 1)
	ctx := context.Background()

	_, err := c.Photos().Get(ctx, photos[0].ID)
	require.NoError(t, err)
	require.NoError(t, c.Photos().Delete(ctx, photos[0].ID))

	_, err = c.Photos().Get(ctx, photos[0].ID)
	var cerr *client.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, client.KindNotFound, cerr.Kind)
}

func TestQuery_StaleDataOnRefetchFailure(t *testing.T) {
	var fail atomic.Bool
	srv := apitest.New(t, func(c *gin.Context) {
		if fail.Load() && c.Request.Method == http.MethodGet && c.Request.URL.Path == "/api/v1/photos" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false, "error": "internal_error", "message": "database exploded",
			})
		}
	})
	c := newClient(t, srv)
	seedPhotos(t, c, 1)
	ctx := context.Background()
	q := model.ListQuery{}

	first := c.Photos().Query(ctx, q)
	require.NoError(t, first.Err)
	require.Len(t, first.Data.Items, 1)

	seedPhotos(t, c, 1)
	fail.Store(true)

	res := c.Photos().Query(ctx, q)
	require.Error(t, res.Err)
	assert.True(t, res.Stale)
	assert.True(t, res.HasData)
	assert.Len(t, res.Data.Items, 1, "previous page is kept")
	var cerr *client.Error
	require.ErrorAs(t, res.Err, &cerr)
	assert.Equal(t, client.KindServerError, cerr.Kind)
	assert.Equal(t, "database exploded", cerr.UserMessage())
	assert.True(t, cerr.Retryable())

	st := c.Photos().Status(q)
	assert.True(t, st.Stale)
	assert.False(t, st.Loading)

	_, err := c.Photos().List(ctx, q)
	require.Error(t, err, "List surfaces the failure instead of stale data")

	fail.Store(false)
	res = c.Photos().Query(ctx, q)
	require.NoError(t, res.Err)
	assert.False(t, res.Stale)
	assert.Len(t, res.Data.Items, 2)
}

// gate parks GET requests to path until released.
type gate struct {
	path    string
	arrived chan struct{}
	release chan struct{}
}

func newGate(path string) *gate {
	return &gate{path: path, arrived: make(chan struct{}, 16), release: make(chan struct{})}
}

func (g *gate) middleware(c *gin.Context) {
	if c.Request.Method == http.MethodGet && c.Request.URL.Path == g.path {
		g.arrived <- struct{}{}
		<-g.release
	}
}

func TestQuery_ConcurrentReadsShareOneRequest(t *testing.T) {
	g := newGate("/api/v1/videos")
	srv := apitest.New(t, g.middleware)
	c := newClient(t, srv)
	q := model.ListQuery{}

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Videos().List(context.Background(), q)
			errs <- err
		}()
	}
	<-g.arrived
	st := c.Videos().Status(q)
	assert.True(t, st.Loading)
	assert.False(t, st.HasData)

	time.Sleep(50 * time.Millisecond)
	close(g.release)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, srv.Requests())
	assert.False(t, c.Videos().Status(q).Loading)
}

func TestQuery_CallerCancelKeepsSharedFetch(t *testing.T) {
	g := newGate("/api/v1/press")
	srv := apitest.New(t, g.middleware)
	c := newClient(t, srv)
	q := model.ListQuery{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Press().List(ctx, q)
		done <- err
	}()
	<-g.arrived
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(g.release)
	require.Eventually(t, func() bool { return c.Press().Status(q).HasData }, time.Second, 10*time.Millisecond)
	_, err := c.Press().List(context.Background(), q)
	require.NoError(t, err)
	assert.EqualValues(t, 1, srv.Requests(), "the abandoned response was cached")
}

func TestAdmin_RequiresToken(t *testing.T) {
	srv := apitest.New(t)
	anon, err := client.New(client.Config{BaseURL: srv.BaseURL}, zerolog.Nop())
	require.NoError(t, err)
	defer anon.Close()

	_, err = anon.Photos().AdminList(context.Background(), model.ListQuery{})
	var cerr *client.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, http.StatusUnauthorized, cerr.Status)
	assert.Equal(t, "unauthorized", cerr.Code)
	assert.False(t, cerr.Retryable())

	admin := newClient(t, srv)
	_, err = admin.Photos().AdminList(context.Background(), model.ListQuery{})
	require.NoError(t, err)
}

func TestAdminList_IncludesDrafts(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	ctx := context.Background()
	_, err := c.Photos().Create(ctx, model.Photo{Content: model.Content{Title: "Draft"}, ImageURL: "https://cdn.example.org/d.jpg"})
	require.NoError(t, err)

	public, err := c.Photos().List(ctx, model.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, public.Items)
	all, err := c.Photos().AdminList(ctx, model.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)
}

func TestValidationErrors_CarryFields(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	_, err := c.Videos().Create(context.Background(), model.Video{Content: model.Content{Title: "x"}, YouTubeURL: "https://vimeo.com/1"})
	var cerr *client.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, http.StatusBadRequest, cerr.Status)
	assert.Equal(t, client.KindUnknown, cerr.Kind)
	fields := map[string]bool{}
	for _, fe := range cerr.FieldErrors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["title"])
	assert.True(t, fields["youtubeUrl"])
}

func TestNetworkUnreachable(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	base := dead.URL + "/api/v1"
	dead.Close()

	c, err := client.New(client.Config{BaseURL: base}, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Visitor().Count(context.Background())
	var cerr *client.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, client.KindNetworkUnreachable, cerr.Kind)
	assert.Equal(t, client.DefaultMessage(client.KindNetworkUnreachable), cerr.UserMessage())
}

func TestTimeout(t *testing.T) {
	srv := apitest.New(t, func(c *gin.Context) {
		if c.Request.URL.Path == "/api/v1/visitor/count" {
			time.Sleep(300 * time.Millisecond)
		}
	})
	c, err := client.New(client.Config{BaseURL: srv.BaseURL, Timeout: 50 * time.Millisecond}, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Visitor().Count(context.Background())
	var cerr *client.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, client.KindTimeout, cerr.Kind)
}

func TestClose(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Photos().List(context.Background(), model.ListQuery{})
	assert.ErrorIs(t, err, client.ErrClosed)
	_, err = c.Visitor().Increment(context.Background())
	assert.ErrorIs(t, err, client.ErrClosed)
	assert.Zero(t, srv.Requests())
}

func TestLanding(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	seedPhotos(t, c, 3)
	seedPress(t, c, "economy", 2)
	srv.ResetLog()

	l, err := c.Landing(context.Background())
	require.NoError(t, err)
	assert.Len(t, l.Photos.Items, 3)
	assert.Empty(t, l.Videos.Items)
	assert.Len(t, l.Press.Items, 2)
	assert.ElementsMatch(t, []string{"GET /api/v1/photos", "GET /api/v1/videos", "GET /api/v1/press"}, srv.Paths())
}

func TestVisitorAndContact(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	ctx := context.Background()

	n, err := c.Visitor().Increment(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = c.Visitor().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = c.Visitor().Reset(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	inbox, err := c.Contact().List(ctx, 0, 0, true)
	require.NoError(t, err)
	assert.Zero(t, inbox.Total)

	receipt, err := c.Contact().Send(ctx, client.ContactRequest{
		Name: "Jane Voter", Email: "jane@example.org", Message: "Thanks for visiting our school.",
	})
	require.NoError(t, err)

	inbox, err = c.Contact().List(ctx, 0, 0, true)
	require.NoError(t, err, "send invalidates the cached inbox")
	require.Equal(t, 1, inbox.Total)
	assert.Equal(t, receipt.ID, inbox.Items[0].ID)

	_, err = c.Contact().MarkRead(ctx, receipt.ID, true)
	require.NoError(t, err)
	inbox, err = c.Contact().List(ctx, 0, 0, true)
	require.NoError(t, err)
	assert.Zero(t, inbox.Total)

	require.NoError(t, c.Contact().Delete(ctx, receipt.ID))
	err = c.Contact().Delete(ctx, receipt.ID)
	var cerr *client.Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, client.KindNotFound, cerr.Kind)
}
