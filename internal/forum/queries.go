package forum

import "time"

// User is a forum account as returned by the user query.
type User struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Slug        string `json:"slug"`
	Karma       int    `json:"karma"`
}

// Contents carries the rendered body of a post or comment. The API returns a
// markdown rendering for most documents and HTML for the rest.
type Contents struct {
	Markdown             string `json:"markdown"`
	HTML                 string `json:"html"`
	PlaintextDescription string `json:"plaintextDescription"`
}

// Post is a forum post record.
type Post struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	PageURL      string    `json:"pageUrl"`
	PostedAt     time.Time `json:"postedAt"`
	BaseScore    int       `json:"baseScore"`
	VoteCount    int       `json:"voteCount"`
	CommentCount int       `json:"commentCount"`
	User         *User     `json:"user"`
	Contents     *Contents `json:"contents"`
}

// Comment is a forum comment record with its parent post.
type Comment struct {
	ID        string    `json:"_id"`
	PostedAt  time.Time `json:"postedAt"`
	PageURL   string    `json:"pageUrl"`
	BaseScore int       `json:"baseScore"`
	VoteCount int       `json:"voteCount"`
	Post      *struct {
		ID    string `json:"_id"`
		Title string `json:"title"`
		Slug  string `json:"slug"`
	} `json:"post"`
	Contents *Contents `json:"contents"`
}

// Tag is a topic tag record.
type Tag struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int    `json:"postCount"`
}

// Draft is a draft post owned by the authenticated user.
type Draft struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	PageURL    string    `json:"pageUrl"`
	Draft      bool      `json:"draft"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

type userResponse struct {
	User struct {
		Result *User `json:"result"`
	} `json:"user"`
}

type postsResponse struct {
	Posts struct {
		Results []Post `json:"results"`
	} `json:"posts"`
}

type commentsResponse struct {
	Comments struct {
		Results []Comment `json:"results"`
	} `json:"comments"`
}

type tagsResponse struct {
	Tags struct {
		Results []Tag `json:"results"`
	} `json:"tags"`
}

type postResponse struct {
	Post struct {
		Result *Post `json:"result"`
	} `json:"post"`
}

type createPostResponse struct {
	CreatePost struct {
		Data *Draft `json:"data"`
	} `json:"createPost"`
}

type draftsResponse struct {
	Posts struct {
		Results []Draft `json:"results"`
	} `json:"posts"`
}

const getUserQuery = `
query GetUser($slug: String!) {
  user(input: { selector: { slug: $slug } }) {
    result {
      _id
      username
      displayName
      slug
      karma
    }
  }
}
`

const userPostsQuery = `
query GetUserPosts($userId: String!, $limit: Int) {
  posts(input: {
    terms: {
      view: "userPosts",
      userId: $userId,
      limit: $limit
    }
  }) {
    results {
      _id
      title
      slug
      pageUrl
      postedAt
      baseScore
      voteCount
      commentCount
      contents {
        markdown
        html
      }
    }
  }
}
`

const userCommentsQuery = `
query GetUserComments($userId: String!, $limit: Int) {
  comments(input: {
    terms: {
      view: "profileComments",
      userId: $userId,
      limit: $limit
    }
  }) {
    results {
      _id
      postedAt
      pageUrl
      baseScore
      voteCount
      post {
        _id
        title
        slug
      }
      contents {
        markdown
        html
        plaintextDescription
      }
    }
  }
}
`

const allTagsQuery = `
query GetTags($limit: Int) {
  tags(input: {
    terms: {
      view: "allTagsAlphabetical",
      limit: $limit
    }
  }) {
    results {
      _id
      name
      slug
      postCount
    }
  }
}
`

const tagPostsQuery = `
query GetTagPosts($tagId: String!, $limit: Int) {
  posts(input: {
    terms: {
      view: "tagRelevance",
      tagId: $tagId,
      limit: $limit
    }
  }) {
    results {
      _id
      title
      slug
      pageUrl
      postedAt
      baseScore
      voteCount
      commentCount
      user {
        displayName
        slug
      }
      contents {
        markdown
        html
      }
    }
  }
}
`

const postByIDQuery = `
query GetPostById($documentId: String!) {
  post(input: { selector: { documentId: $documentId } }) {
    result {
      _id
      title
      slug
      pageUrl
      postedAt
      baseScore
      voteCount
      commentCount
      user {
        displayName
        slug
      }
      contents {
        markdown
        html
      }
    }
  }
}
`

const recentPostsQuery = `
query RecentPosts($limit: Int) {
  posts(input: {
    terms: {
      limit: $limit
    }
  }) {
    results {
      _id
      title
      slug
      pageUrl
      postedAt
      baseScore
      voteCount
      commentCount
      user {
        displayName
        slug
      }
      contents {
        markdown
        html
      }
    }
  }
}
`

const searchPostsQuery = `
query SearchPosts($searchQuery: String!, $limit: Int) {
  posts(input: {
    terms: {
      query: $searchQuery,
      limit: $limit
    }
  }) {
    results {
      _id
      title
      slug
      pageUrl
      postedAt
      baseScore
      voteCount
      commentCount
      user {
        displayName
        slug
      }
    }
  }
}
`

const myDraftsQuery = `
query GetMyDrafts($limit: Int) {
  posts(input: {
    terms: {
      view: "drafts",
      limit: $limit
    }
  }) {
    results {
      _id
      title
      slug
      pageUrl
      createdAt
      modifiedAt
      draft
    }
  }
}
`

const createPostMutation = `
mutation CreatePost($data: CreatePostDataInput!) {
  createPost(data: $data) {
    data {
      _id
      title
      slug
      pageUrl
      draft
    }
  }
}
`
