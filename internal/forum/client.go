// Package forum implements a GraphQL client for LessWrong, the EA Forum, and
// the Alignment Forum. The three sites run the same ForumMagnum software, so a
// single client covers all of them and only the endpoint differs.
package forum

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/pkg/errors"

	"github.com/alethic/forumdigest/internal/models"
)

const defaultTimeout = 30 * time.Second

type endpoint struct {
	graphqlURL string
	baseURL    string
}

var endpoints = map[models.Forum]endpoint{
	models.ForumLessWrong: {
		graphqlURL: "https://www.lesswrong.com/graphql",
		baseURL:    "https://www.lesswrong.com",
	},
	models.ForumEAForum: {
		graphqlURL: "https://forum.effectivealtruism.org/graphql",
		baseURL:    "https://forum.effectivealtruism.org",
	},
	models.ForumAlignmentForum: {
		graphqlURL: "https://www.alignmentforum.org/graphql",
		baseURL:    "https://www.alignmentforum.org",
	},
}

// BaseURL returns the web base URL for a forum.
func BaseURL(forum models.Forum) string {
	return endpoints[forum].baseURL
}

// Client talks to the forum GraphQL APIs and normalizes responses into
// activity items. It implements models.ActivitySource.
type Client struct {
	httpClient *http.Client
	tokens     map[models.Forum]string
	urls       map[models.Forum]string
	converter  *md.Converter
}

// Option configures a Client.
type Option func(*Client)

// WithAuth sets the loginToken used for authenticated operations, per forum.
func WithAuth(tokens map[models.Forum]string) Option {
	return func(c *Client) {
		for forum, token := range tokens {
			c.tokens[forum] = token
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithEndpoint overrides the GraphQL URL for a forum. Used by tests.
func WithEndpoint(forum models.Forum, url string) Option {
	return func(c *Client) {
		c.urls[forum] = url
	}
}

// NewClient creates a forum client with a 30 second request timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     map[models.Forum]string{},
		urls:       map[models.Forum]string{},
		converter:  md.NewConverter("", true, nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) endpointURL(forum models.Forum) string {
	if url := c.urls[forum]; url != "" {
		return url
	}
	return endpoints[forum].graphqlURL
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) query(ctx context.Context, forum models.Forum, query string, variables map[string]any, out any) error {
	return c.do(ctx, forum, query, variables, out, "")
}

func (c *Client) authedQuery(ctx context.Context, forum models.Forum, query string, variables map[string]any, out any) error {
	token := c.tokens[forum]
	if token == "" {
		return errors.Errorf("no auth token configured for %s, run set-token first", forum)
	}
	return c.do(ctx, forum, query, variables, out, token)
}

func (c *Client) do(ctx context.Context, forum models.Forum, query string, variables map[string]any, out any, token string) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return errors.Wrap(err, "encoding graphql request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(forum), bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "building graphql request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		// ForumMagnum uses Meteor cookie auth.
		req.AddCookie(&http.Cookie{Name: "loginToken", Value: token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Forum: forum, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &NetworkError{Forum: forum, Err: errors.Errorf("status %d", resp.StatusCode)}
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &NetworkError{Forum: forum, Err: errors.Wrap(err, "decoding response")}
	}
	if len(envelope.Errors) > 0 {
		return errors.Errorf("%s: graphql error: %s", forum, envelope.Errors[0].Message)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return errors.Wrap(err, "decoding graphql data")
		}
	}
	return nil
}

// markdownBody extracts a markdown body from contents, converting HTML when
// the API returns no markdown rendering.
func (c *Client) markdownBody(contents *Contents) string {
	if contents == nil {
		return ""
	}
	if contents.Markdown != "" {
		return contents.Markdown
	}
	if contents.HTML != "" {
		if converted, err := c.converter.ConvertString(contents.HTML); err == nil {
			return converted
		}
	}
	return contents.PlaintextDescription
}
