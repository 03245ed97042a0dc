package forum

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/alethic/forumdigest/internal/models"
)

// Upstream views page rather than filter by date, so fetch limits bound how
// far back a window can reach. These match the defaults the API itself uses.
const (
	userPostLimit    = 50
	userCommentLimit = 100
	tagScanLimit     = 500
	tagPostLimit     = 50
)

// GetUser fetches a user by slug. Returns NotFoundError for unknown slugs.
func (c *Client) GetUser(ctx context.Context, forum models.Forum, slug string) (*User, error) {
	var resp userResponse
	if err := c.query(ctx, forum, getUserQuery, map[string]any{"slug": slug}, &resp); err != nil {
		return nil, err
	}
	if resp.User.Result == nil {
		return nil, &NotFoundError{Forum: forum, Kind: "user", Slug: slug}
	}
	return resp.User.Result, nil
}

// UserPosts fetches recent posts authored by a user.
func (c *Client) UserPosts(ctx context.Context, forum models.Forum, userID string, limit int) ([]Post, error) {
	var resp postsResponse
	err := c.query(ctx, forum, userPostsQuery, map[string]any{"userId": userID, "limit": limit}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Posts.Results, nil
}

// UserComments fetches recent comments authored by a user.
func (c *Client) UserComments(ctx context.Context, forum models.Forum, userID string, limit int) ([]Comment, error) {
	var resp commentsResponse
	err := c.query(ctx, forum, userCommentsQuery, map[string]any{"userId": userID, "limit": limit}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Comments.Results, nil
}

// FetchUserActivity returns a user's posts and comments published since the
// given time, newest first. Zero items is a valid result.
func (c *Client) FetchUserActivity(ctx context.Context, forum models.Forum, slug string, since time.Time) ([]models.ActivityItem, error) {
	user, err := c.GetUser(ctx, forum, slug)
	if err != nil {
		return nil, err
	}

	posts, err := c.UserPosts(ctx, forum, user.ID, userPostLimit)
	if err != nil {
		return nil, err
	}
	comments, err := c.UserComments(ctx, forum, user.ID, userCommentLimit)
	if err != nil {
		return nil, err
	}

	author := user.DisplayName
	if author == "" {
		author = user.Slug
	}

	items := make([]models.ActivityItem, 0, len(posts)+len(comments))
	for _, post := range posts {
		if post.PostedAt.Before(since) {
			continue
		}
		items = append(items, c.postItem(post, author))
	}
	for _, comment := range comments {
		if comment.PostedAt.Before(since) {
			continue
		}
		items = append(items, c.commentItem(comment, author))
	}

	sortByDateDesc(items)
	return items, nil
}

// GetTag fetches a topic tag by slug. The API has no direct slug lookup for
// tags, so the alphabetical listing is scanned.
func (c *Client) GetTag(ctx context.Context, forum models.Forum, slug string) (*Tag, error) {
	tags, err := c.allTags(ctx, forum, tagScanLimit)
	if err != nil {
		return nil, err
	}
	for i, tag := range tags {
		if strings.EqualFold(tag.Slug, slug) {
			return &tags[i], nil
		}
	}
	return nil, &NotFoundError{Forum: forum, Kind: "topic", Slug: slug}
}

func (c *Client) allTags(ctx context.Context, forum models.Forum, limit int) ([]Tag, error) {
	var resp tagsResponse
	if err := c.query(ctx, forum, allTagsQuery, map[string]any{"limit": limit}, &resp); err != nil {
		return nil, err
	}
	return resp.Tags.Results, nil
}

// TagPosts fetches posts carrying a tag, by relevance view.
func (c *Client) TagPosts(ctx context.Context, forum models.Forum, tagID string, limit int) ([]Post, error) {
	var resp postsResponse
	err := c.query(ctx, forum, tagPostsQuery, map[string]any{"tagId": tagID, "limit": limit}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Posts.Results, nil
}

// FetchTopicActivity returns posts tagged with a topic published since the
// given time, newest first.
func (c *Client) FetchTopicActivity(ctx context.Context, forum models.Forum, slug string, since time.Time) ([]models.ActivityItem, error) {
	tag, err := c.GetTag(ctx, forum, slug)
	if err != nil {
		return nil, err
	}

	posts, err := c.TagPosts(ctx, forum, tag.ID, tagPostLimit)
	if err != nil {
		return nil, err
	}

	items := make([]models.ActivityItem, 0, len(posts))
	for _, post := range posts {
		if post.PostedAt.Before(since) {
			continue
		}
		items = append(items, c.postItem(post, ""))
	}

	sortByDateDesc(items)
	return items, nil
}

func (c *Client) postItem(post Post, author string) models.ActivityItem {
	if author == "" && post.User != nil {
		author = post.User.DisplayName
		if author == "" {
			author = post.User.Slug
		}
	}
	return models.ActivityItem{
		Kind:         models.KindPost,
		Title:        post.Title,
		URL:          post.PageURL,
		Author:       author,
		Date:         post.PostedAt,
		MarkdownBody: c.markdownBody(post.Contents),
		Score:        post.BaseScore,
	}
}

func (c *Client) commentItem(comment Comment, author string) models.ActivityItem {
	title := "Comment"
	if comment.Post != nil {
		title = "On: " + comment.Post.Title
	}
	return models.ActivityItem{
		Kind:         models.KindComment,
		Title:        title,
		URL:          comment.PageURL,
		Author:       author,
		Date:         comment.PostedAt,
		MarkdownBody: c.markdownBody(comment.Contents),
		Score:        comment.BaseScore,
	}
}

func sortByDateDesc(items []models.ActivityItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
}
