package forum

import (
	"context"

	"github.com/pkg/errors"

	"github.com/alethic/forumdigest/internal/models"
)

// DraftInput describes a draft post to create.
type DraftInput struct {
	Title    string
	Markdown string
	URL      string
	Question bool
}

// CreateDraft creates a draft post. Requires a configured loginToken for the
// forum. The draft is submitted to the frontpage queue but stays unpublished.
func (c *Client) CreateDraft(ctx context.Context, forum models.Forum, input DraftInput) (*Draft, error) {
	if input.Title == "" {
		return nil, errors.New("draft title is required")
	}

	data := map[string]any{
		"title": input.Title,
		"contents": map[string]any{
			"originalContents": map[string]any{
				"type": "markdown",
				"data": input.Markdown,
			},
		},
		"draft":             true,
		"submitToFrontpage": true,
	}
	if input.URL != "" {
		data["url"] = input.URL
	}
	if input.Question {
		data["question"] = true
	}

	var resp createPostResponse
	if err := c.authedQuery(ctx, forum, createPostMutation, map[string]any{"data": data}, &resp); err != nil {
		return nil, err
	}
	if resp.CreatePost.Data == nil {
		return nil, errors.Errorf("%s: draft creation returned no post", forum)
	}
	return resp.CreatePost.Data, nil
}

// MyDrafts lists the authenticated user's draft posts.
func (c *Client) MyDrafts(ctx context.Context, forum models.Forum, limit int) ([]Draft, error) {
	var resp draftsResponse
	err := c.authedQuery(ctx, forum, myDraftsQuery, map[string]any{"limit": limit}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Posts.Results, nil
}
