package views

import (
	"context"
	"errors"
	"strings"
	"sync"

	"socialbook/client"
	"socialbook/logger"
	"socialbook/models"

	"go.uber.org/zap"
)

var (
	ErrBlankComment  = errors.New("comment is blank")
	ErrImageRequired = errors.New(MsgImageRequired)
)

type PostCardState struct {
	Post         models.Post
	Comments     []models.Comment
	ShowComments bool
	Error        string
}

// PostCard - один пост с лайками и комментариями
type PostCard struct {
	deps     Deps
	onDelete func(id string)
	onUpdate func(ctx context.Context)

	mu    sync.Mutex
	state PostCardState
}

// NewPostCard wires a card to its list; either callback may be nil.
func NewPostCard(deps Deps, post models.Post, onDelete func(id string), onUpdate func(ctx context.Context)) *PostCard {
	return &PostCard{deps: deps, onDelete: onDelete, onUpdate: onUpdate, state: PostCardState{Post: post}}
}

// ToggleLike flips the like at once, then takes the count the server reports.
// When the cached count is stale the result is the server's number, not N+1.
// On failure the previous like state comes back.
func (v *PostCard) ToggleLike(ctx context.Context) {
	v.mu.Lock()
	id := v.state.Post.ID
	wasLiked, before := v.state.Post.IsLiked, v.state.Post.NoOfLikes
	v.state.Post.IsLiked = !wasLiked
	if wasLiked {
		v.state.Post.NoOfLikes = max(0, before-1)
	} else {
		v.state.Post.NoOfLikes = before + 1
	}
	v.mu.Unlock()

	var (
		res *models.LikeResult
		err error
	)
	if wasLiked {
		res, err = v.deps.api().Posts.Unlike(ctx, id)
	} else {
		res, err = v.deps.api().Posts.Like(ctx, id)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.state.Post.IsLiked, v.state.Post.NoOfLikes = wasLiked, before
		logger.Warn("like error", zap.String("post", id), zap.Error(err))
		return
	}
	v.state.Post.IsLiked = res.Status == models.LikeStatusLiked
	v.state.Post.NoOfLikes = res.Likes
}

// ToggleComments opens or closes the comment list, loading it on open.
func (v *PostCard) ToggleComments(ctx context.Context) {
	v.mu.Lock()
	v.state.ShowComments = !v.state.ShowComments
	open, id := v.state.ShowComments, v.state.Post.ID
	v.mu.Unlock()
	if !open {
		return
	}

	comments, err := v.deps.api().Comments.List(ctx, id)
	if err != nil {
		logger.Warn("comments error", zap.String("post", id), zap.Error(err))
		return
	}
	v.mu.Lock()
	v.state.Comments = comments
	v.mu.Unlock()
}

func (v *PostCard) AddComment(ctx context.Context, body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrBlankComment
	}
	v.mu.Lock()
	id := v.state.Post.ID
	v.mu.Unlock()

	comment, err := v.deps.api().Comments.Create(ctx, id, body)
	if err != nil {
		logger.Warn("comment error", zap.String("post", id), zap.Error(err))
		return err
	}
	v.mu.Lock()
	v.state.Comments = append(v.state.Comments, *comment)
	v.state.Post.CommentsCount++
	v.mu.Unlock()

	if v.onUpdate != nil {
		v.onUpdate(ctx)
	}
	return nil
}

func (v *PostCard) DeleteComment(ctx context.Context, commentID string) error {
	if err := v.deps.api().Comments.Delete(ctx, commentID); err != nil {
		logger.Warn("delete comment error", zap.String("comment", commentID), zap.Error(err))
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	kept := v.state.Comments[:0:0]
	for _, c := range v.state.Comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	if len(kept) < len(v.state.Comments) && v.state.Post.CommentsCount > 0 {
		v.state.Post.CommentsCount--
	}
	v.state.Comments = kept
	return nil
}

func (v *PostCard) Delete(ctx context.Context) error {
	v.mu.Lock()
	id := v.state.Post.ID
	v.mu.Unlock()

	if err := v.deps.api().Posts.Delete(ctx, id); err != nil {
		v.mu.Lock()
		v.state.Error = MsgPostDeleteFailed
		v.mu.Unlock()
		logger.Warn("delete post error", zap.String("post", id), zap.Error(err))
		return err
	}
	if v.onDelete != nil {
		v.onDelete(id)
	}
	return nil
}

func (v *PostCard) CanDelete() bool {
	v.mu.Lock()
	post := v.state.Post
	v.mu.Unlock()
	return v.deps.Session.CanDeletePost(post)
}

func (v *PostCard) CanDeleteComment(c models.Comment) bool {
	return v.deps.Session.IsOwner(c.User)
}

func (v *PostCard) State() PostCardState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	s.Comments = append([]models.Comment(nil), v.state.Comments...)
	return s
}

type CreatePostState struct {
	Caption  string
	HasImage bool
	Loading  bool
	Error    string
}

// CreatePost is the new post form.
type CreatePost struct {
	deps      Deps
	onCreated func(ctx context.Context, post *models.Post)

	mu      sync.Mutex
	caption string
	image   *client.Upload
	state   CreatePostState
}

func NewCreatePost(deps Deps, onCreated func(ctx context.Context, post *models.Post)) *CreatePost {
	return &CreatePost{deps: deps, onCreated: onCreated}
}

func (v *CreatePost) SetCaption(caption string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.caption = caption
}

func (v *CreatePost) SetImage(upload client.Upload) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.image = &upload
}

// Submit requires an image; on success the form is reset and onCreated fires.
func (v *CreatePost) Submit(ctx context.Context) (*models.Post, error) {
	v.mu.Lock()
	if v.image == nil {
		v.state.Error = MsgImageRequired
		v.mu.Unlock()
		return nil, ErrImageRequired
	}
	caption, image := v.caption, *v.image
	v.state.Loading, v.state.Error = true, ""
	v.mu.Unlock()

	post, err := v.deps.api().Posts.Create(ctx, caption, image)

	v.mu.Lock()
	v.state.Loading = false
	if err != nil {
		v.state.Error = client.ErrorMessage(err, MsgPostCreateFailed)
		v.mu.Unlock()
		return nil, err
	}
	v.caption, v.image = "", nil
	v.mu.Unlock()

	if v.onCreated != nil {
		v.onCreated(ctx, post)
	}
	return post, nil
}

func (v *CreatePost) State() CreatePostState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	s.Caption = v.caption
	s.HasImage = v.image != nil
	return s
}
