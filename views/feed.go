package views

import (
	"context"
	"sync"

	"socialbook/logger"
	"socialbook/models"

	"go.uber.org/zap"
)

type FeedState struct {
	Posts   []models.Post
	Loading bool
	Error   string
}

// Feed is the home timeline. Creates and updates refetch it, deletes are applied locally.
type Feed struct {
	deps Deps

	mu    sync.Mutex
	state FeedState
}

func NewFeed(deps Deps) *Feed {
	return &Feed{deps: deps, state: FeedState{Loading: true}}
}

func (v *Feed) Load(ctx context.Context) error {
	v.mu.Lock()
	v.state.Loading = true
	v.mu.Unlock()

	posts, err := v.deps.api().Posts.Feed(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Loading = false
	if err != nil {
		v.state.Error = MsgFeedFailed
		logger.Warn("feed error", zap.Error(err))
		return err
	}
	v.state.Posts = posts
	v.state.Error = ""
	return nil
}

// PostCreated is the CreatePost callback.
func (v *Feed) PostCreated(ctx context.Context, _ *models.Post) {
	_ = v.Load(ctx)
}

// PostDeleted drops exactly the post with id.
func (v *Feed) PostDeleted(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Posts = removePost(v.state.Posts, id)
}

func (v *Feed) PostUpdated(ctx context.Context) {
	_ = v.Load(ctx)
}

// Card builds the card for a loaded post, wired to this feed.
func (v *Feed) Card(post models.Post) *PostCard {
	return NewPostCard(v.deps, post, v.PostDeleted, v.PostUpdated)
}

func (v *Feed) State() FeedState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	s.Posts = append([]models.Post(nil), v.state.Posts...)
	return s
}

func removePost(posts []models.Post, id string) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

type SuggestionsState struct {
	Profiles []models.Profile
	Loading  bool
}

// UserSuggestions lists profiles to follow. Failures are only logged.
type UserSuggestions struct {
	deps Deps

	mu    sync.Mutex
	state SuggestionsState
}

func NewUserSuggestions(deps Deps) *UserSuggestions {
	return &UserSuggestions{deps: deps, state: SuggestionsState{Loading: true}}
}

func (v *UserSuggestions) Load(ctx context.Context) {
	profiles, err := v.deps.api().Posts.Suggestions(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Loading = false
	if err != nil {
		logger.Warn("suggestions error", zap.Error(err))
		return
	}
	v.state.Profiles = profiles
}

func (v *UserSuggestions) Follow(ctx context.Context, username string) {
	if _, err := v.deps.api().Followers.Toggle(ctx, username); err != nil {
		logger.Warn("follow error", zap.String("user", username), zap.Error(err))
		return
	}
	v.Load(ctx)
}

// Visible is false while loading or when there is nobody to suggest.
func (v *UserSuggestions) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.state.Loading && len(v.state.Profiles) > 0
}

func (v *UserSuggestions) State() SuggestionsState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	s.Profiles = append([]models.Profile(nil), v.state.Profiles...)
	return s
}
