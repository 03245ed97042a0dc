package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alethic/forumdigest/internal/models"
)

// graphqlStub routes requests by operation name and replies with canned data.
type graphqlStub struct {
	handlers  map[string]func(vars map[string]any) any
	lastToken string
}

func (s *graphqlStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.lastToken = ""
	if cookie, err := r.Cookie("loginToken"); err == nil {
		s.lastToken = cookie.Value
	}

	for op, handler := range s.handlers {
		if strings.Contains(req.Query, op) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"data": handler(req.Variables)})
			return
		}
	}
	http.Error(w, "unknown operation", http.StatusBadRequest)
}

func newTestClient(t *testing.T, stub *graphqlStub, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)
	opts = append(opts, WithEndpoint(models.ForumLessWrong, server.URL))
	return NewClient(opts...)
}

func day(offset int) time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func postJSON(id, title string, postedAt time.Time) map[string]any {
	return map[string]any{
		"_id":       id,
		"title":     title,
		"slug":      strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		"pageUrl":   "https://www.lesswrong.com/posts/" + id,
		"postedAt":  postedAt.Format(time.RFC3339),
		"baseScore": 42,
		"contents":  map[string]any{"markdown": "Body of " + title},
	}
}

func TestFetchUserActivity(t *testing.T) {
	stub := &graphqlStub{handlers: map[string]func(map[string]any) any{
		"GetUser(": func(vars map[string]any) any {
			return map[string]any{"user": map[string]any{"result": map[string]any{
				"_id": "u1", "displayName": "Daniel", "slug": "daniel-kokotajlo", "karma": 100,
			}}}
		},
		"GetUserPosts": func(vars map[string]any) any {
			assert.Equal(t, "u1", vars["userId"])
			return map[string]any{"posts": map[string]any{"results": []any{
				postJSON("p1", "Old Post", day(-30)),
				postJSON("p2", "Recent Post", day(-2)),
				postJSON("p3", "Newer Post", day(-1)),
			}}}
		},
		"GetUserComments": func(vars map[string]any) any {
			return map[string]any{"comments": map[string]any{"results": []any{
				map[string]any{
					"_id":       "c1",
					"postedAt":  day(-3).Format(time.RFC3339),
					"pageUrl":   "https://www.lesswrong.com/posts/p9?commentId=c1",
					"baseScore": 7,
					"post":      map[string]any{"_id": "p9", "title": "Parent Post"},
					"contents":  map[string]any{"markdown": "A comment body"},
				},
			}}}
		},
	}}

	client := newTestClient(t, stub)
	items, err := client.FetchUserActivity(context.Background(), models.ForumLessWrong, "daniel-kokotajlo", day(-7))
	require.NoError(t, err)

	// The 30-day-old post falls outside the window.
	require.Len(t, items, 3)
	for _, item := range items {
		assert.False(t, item.Date.Before(day(-7)), "item outside window: %s", item.Title)
		assert.Equal(t, "Daniel", item.Author)
	}

	// Newest first regardless of upstream order.
	assert.Equal(t, "Newer Post", items[0].Title)
	assert.Equal(t, "Recent Post", items[1].Title)
	assert.Equal(t, models.KindComment, items[2].Kind)
	assert.Equal(t, "On: Parent Post", items[2].Title)
}

func TestFetchUserActivityEmptyWindow(t *testing.T) {
	stub := &graphqlStub{handlers: map[string]func(map[string]any) any{
		"GetUser(": func(map[string]any) any {
			return map[string]any{"user": map[string]any{"result": map[string]any{"_id": "u1", "slug": "quiet-user"}}}
		},
		"GetUserPosts":    func(map[string]any) any { return map[string]any{"posts": map[string]any{"results": []any{}}} },
		"GetUserComments": func(map[string]any) any { return map[string]any{"comments": map[string]any{"results": []any{}}} },
	}}

	client := newTestClient(t, stub)
	items, err := client.FetchUserActivity(context.Background(), models.ForumLessWrong, "quiet-user", day(-7))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFetchUserActivityNotFound(t *testing.T) {
	stub := &graphqlStub{handlers: map[string]func(map[string]any) any{
		"GetUser(": func(map[string]any) any {
			return map[string]any{"user": map[string]any{"result": nil}}
		},
	}}

	client := newTestClient(t, stub)
	_, err := client.FetchUserActivity(context.Background(), models.ForumLessWrong, "nobody", day(-7))

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "user", notFound.Kind)
	assert.Equal(t, "nobody", notFound.Slug)
}

func TestFetchTopicActivity(t *testing.T) {
	stub := &graphqlStub{handlers: map[string]func(map[string]any) any{
		"GetTags": func(vars map[string]any) any {
			return map[string]any{"tags": map[string]any{"results": []any{
				map[string]any{"_id": "t1", "name": "AI Safety", "slug": "ai-safety", "postCount": 12},
			}}}
		},
		"GetTagPosts": func(vars map[string]any) any {
			assert.Equal(t, "t1", vars["tagId"])
			post := postJSON("p5", "Tagged Post", day(-1))
			post["user"] = map[string]any{"displayName": "Alice", "slug": "alice"}
			return map[string]any{"posts": map[string]any{"results": []any{post}}}
		},
	}}

	client := newTestClient(t, stub)
	items, err := client.FetchTopicActivity(context.Background(), models.ForumLessWrong, "AI-Safety", day(-7))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.KindPost, items[0].Kind)
	assert.Equal(t, "Alice", items[0].Author)
}

func TestFetchTopicActivityNotFound(t *testing.T) {
	stub := &graphqlStub{handlers: map[string]func(map[string]any) any{
		"GetTags": func(map[string]any) any {
			return map[string]any{"tags": map[string]any{"results": []any{}}}
		},
	}}

	client := newTestClient(t, stub)
	_, err := client.FetchTopicActivity(context.Background(), models.ForumLessWrong, "nonexistent-topic", day(-7))

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "topic", notFound.Kind)
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(WithEndpoint(models.ForumLessWrong, server.URL))
	_, err := client.GetUser(context.Background(), models.ForumLessWrong, "anyone")

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, models.ForumLessWrong, netErr.Forum)
}

func TestGetPostByURL(t *testing.T) {
	stub := &graphqlStub{handlers: map[string]func(map[string]any) any{
		"GetPostById": func(vars map[string]any) any {
			assert.Equal(t, "pT75MFsLJArrBGkaF", vars["documentId"])
			return map[string]any{"post": map[string]any{"result": postJSON("pT75MFsLJArrBGkaF", "Linked Post", day(-1))}}
		},
	}}

	client := newTestClient(t, stub)
	post, err := client.GetPost(context.Background(), models.ForumLessWrong,
		"https://www.lesswrong.com/posts/pT75MFsLJArrBGkaF/linked-post")
	require.NoError(t, err)
	assert.Equal(t, "Linked Post", post.Title)
}

func TestGetPostBySlugScan(t *testing.T) {
	stub := &graphqlStub{handlers: map[string]func(map[string]any) any{
		"RecentPosts": func(vars map[string]any) any {
			return map[string]any{"posts": map[string]any{"results": []any{
				postJSON("p1", "First Post", day(-1)),
				postJSON("p2", "Second Post", day(-2)),
			}}}
		},
	}}

	client := newTestClient(t, stub)
	post, err := client.GetPost(context.Background(), models.ForumLessWrong, "second-post")
	require.NoError(t, err)
	assert.Equal(t, "p2", post.ID)

	_, err = client.GetPost(context.Background(), models.ForumLessWrong, "no-such-post")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestSearchTagsFiltersClientSide(t *testing.T) {
	stub := &graphqlStub{handlers: map[string]func(map[string]any) any{
		"GetTags": func(map[string]any) any {
			return map[string]any{"tags": map[string]any{"results": []any{
				map[string]any{"_id": "t1", "name": "AI Alignment", "slug": "ai-alignment"},
				map[string]any{"_id": "t2", "name": "Forecasting", "slug": "forecasting"},
				map[string]any{"_id": "t3", "name": "Inner Alignment", "slug": "inner-alignment"},
			}}}
		},
	}}

	client := newTestClient(t, stub)
	tags, err := client.SearchTags(context.Background(), models.ForumLessWrong, "alignment", 10)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "ai-alignment", tags[0].Slug)
}

func TestCreateDraftRequiresToken(t *testing.T) {
	stub := &graphqlStub{handlers: map[string]func(map[string]any) any{}}

	client := newTestClient(t, stub)
	_, err := client.CreateDraft(context.Background(), models.ForumLessWrong, DraftInput{Title: "T", Markdown: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no auth token")
}

func TestCreateDraftSendsCookie(t *testing.T) {
	stub := &graphqlStub{handlers: map[string]func(map[string]any) any{
		"CreatePost": func(vars map[string]any) any {
			data, _ := vars["data"].(map[string]any)
			assert.Equal(t, "My Draft", data["title"])
			assert.Equal(t, true, data["draft"])
			return map[string]any{"createPost": map[string]any{"data": map[string]any{
				"_id": "d1", "title": "My Draft", "draft": true,
			}}}
		},
	}}

	client := newTestClient(t, stub, WithAuth(map[models.Forum]string{models.ForumLessWrong: "tok-123"}))
	draft, err := client.CreateDraft(context.Background(), models.ForumLessWrong, DraftInput{Title: "My Draft", Markdown: "body"})
	require.NoError(t, err)
	assert.Equal(t, "d1", draft.ID)
	assert.Equal(t, "tok-123", stub.lastToken)
}

func TestMarkdownBodyHTMLFallback(t *testing.T) {
	client := NewClient()

	body := client.markdownBody(&Contents{HTML: "<p>Hello <strong>world</strong></p>"})
	assert.Contains(t, body, "Hello")
	assert.Contains(t, body, "**world**")

	assert.Equal(t, "plain md", client.markdownBody(&Contents{Markdown: "plain md", HTML: "<p>ignored</p>"}))
	assert.Equal(t, "", client.markdownBody(nil))
}

func TestGraphQLErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors": [{"message": "rate limited"}]}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(WithEndpoint(models.ForumLessWrong, server.URL))
	_, err := client.GetUser(context.Background(), models.ForumLessWrong, "anyone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
