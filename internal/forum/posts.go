package forum

import (
	"context"
	"regexp"
	"strings"

	"github.com/alethic/forumdigest/internal/models"
)

const slugScanLimit = 1000

var (
	postURLPattern = regexp.MustCompile(`/posts/([a-zA-Z0-9]+)/`)
	postIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9]{17}$`)
)

// GetPost fetches a post by ID, slug, or full URL. Slug lookups scan the
// recent-post listing because the API has no slug selector.
func (c *Client) GetPost(ctx context.Context, forum models.Forum, identifier string) (*Post, error) {
	var postID string
	if match := postURLPattern.FindStringSubmatch(identifier); match != nil {
		postID = match[1]
	} else if postIDPattern.MatchString(identifier) {
		postID = identifier
	}

	if postID != "" {
		var resp postResponse
		if err := c.query(ctx, forum, postByIDQuery, map[string]any{"documentId": postID}, &resp); err != nil {
			return nil, err
		}
		if resp.Post.Result != nil {
			return resp.Post.Result, nil
		}
	}

	// Handles both bare slugs and URLs ending in a slug.
	slug := identifier[strings.LastIndex(identifier, "/")+1:]

	var resp postsResponse
	if err := c.query(ctx, forum, recentPostsQuery, map[string]any{"limit": slugScanLimit}, &resp); err != nil {
		return nil, err
	}
	for i, post := range resp.Posts.Results {
		if post.Slug == slug {
			return &resp.Posts.Results[i], nil
		}
	}

	return nil, &NotFoundError{Forum: forum, Kind: "post", Slug: identifier}
}

// SearchPosts searches posts by text query.
func (c *Client) SearchPosts(ctx context.Context, forum models.Forum, query string, limit int) ([]Post, error) {
	var resp postsResponse
	err := c.query(ctx, forum, searchPostsQuery, map[string]any{"searchQuery": query, "limit": limit}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Posts.Results, nil
}

// SearchTags returns topic tags whose name contains the query,
// case-insensitively. The API has no tag search, so listing is filtered
// client-side.
func (c *Client) SearchTags(ctx context.Context, forum models.Forum, query string, limit int) ([]Tag, error) {
	tags, err := c.allTags(ctx, forum, 200)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var matching []Tag
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag.Name), needle) {
			matching = append(matching, tag)
			if len(matching) >= limit {
				break
			}
		}
	}
	return matching, nil
}
