package interfaces

import "context"

// Metadata holds the key/value pairs found in a post's front matter block.
// Values are kept exactly as written (trimmed); no type inference happens.
type Metadata map[string]string

// Post is the assembled representation of one blog entry. Slug is derived
// from the filename and is the only identity a post has.
type Post struct {
	Slug    string `json:"slug"`
	Title   string `json:"title,omitempty"`
	Date    string `json:"date,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	// Content is the raw file text, front matter included.
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// PostCatalog enumerates the Markdown filenames available in the posts
// directory. Names are bare filenames such as "hello-world.md".
type PostCatalog interface {
	Filenames(ctx context.Context) ([]string, error)
}

// PostFetcher retrieves the raw text of a single post file.
type PostFetcher interface {
	Fetch(ctx context.Context, filename string) (string, error)
}

// PostLoader produces post records in list or single-file mode.
type PostLoader interface {
	// List loads every post the catalog knows about. Failures for individual
	// files are recorded on the listing and never abort the batch.
	List(ctx context.Context) *Listing
	// Get loads a single post by slug. The boolean is false when the post
	// could not be fetched.
	Get(ctx context.Context, slug string) (*Post, bool)
}

// FileResult records the outcome of loading one file during a list run.
type FileResult struct {
	Filename string
	Post     *Post
	Err      error
}

// OK reports whether the file produced a post.
func (r FileResult) OK() bool {
	return r.Err == nil && r.Post != nil
}

// Listing is the outcome of a list run: the successfully loaded posts ordered
// by date (newest first) and one result per catalog entry in catalog order.
type Listing struct {
	Posts   []Post
	Results []FileResult
}

// Failed returns the results that did not produce a post.
func (l *Listing) Failed() []FileResult {
	if l == nil {
		return nil
	}
	var failed []FileResult
	for _, result := range l.Results {
		if !result.OK() {
			failed = append(failed, result)
		}
	}
	return failed
}

// Find returns the listed post with the given slug.
func (l *Listing) Find(slug string) (*Post, bool) {
	if l == nil {
		return nil, false
	}
	for i := range l.Posts {
		if l.Posts[i].Slug == slug {
			return &l.Posts[i], true
		}
	}
	return nil, false
}
