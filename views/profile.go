package views

import (
	"context"
	"strings"
	"sync"
	"time"

	"socialbook/client"
	"socialbook/logger"
	"socialbook/models"
	"socialbook/nav"

	"go.uber.org/zap"
)

// Profile sections loaded after the profile itself.
const (
	SectionPosts     = "posts"
	SectionFollowers = "followers"
	SectionFollowing = "following"
	SectionFollow    = "follow"
	SectionBlocks    = "blocks"
)

type ProfileState struct {
	Profile     *models.Profile
	Posts       []models.Post
	Followers   int
	Following   int
	IsFollowing bool
	IsBlocking  bool
	Loading     bool
	NotFound    bool
	Error       string
	// Failed lists the sections that could not be loaded; the rest of the page is still shown.
	Failed []string
}

// ProfileView - страница пользователя username
type ProfileView struct {
	deps     Deps
	username string

	mu    sync.Mutex
	state ProfileState
}

func NewProfileView(deps Deps, username string) *ProfileView {
	return &ProfileView{deps: deps, username: username, state: ProfileState{Loading: true}}
}

func (v *ProfileView) Username() string { return v.username }

// Load fetches the profile, then posts, follower counts, follow and block status in order.
func (v *ProfileView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.state.Loading = true
	v.mu.Unlock()

	next, err := v.load(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	next.Loading = false
	v.state = next
	return err
}

func (v *ProfileView) load(ctx context.Context) (ProfileState, error) {
	api := v.deps.api()
	var st ProfileState

	profiles, err := api.Profiles.List(ctx, v.username)
	if err != nil {
		logger.Warn("profile error", zap.String("username", v.username), zap.Error(err))
		st.Error = MsgProfileFailed
		return st, err
	}
	for i := range profiles {
		if strings.EqualFold(profiles[i].Username, v.username) {
			st.Profile = &profiles[i]
			break
		}
	}
	if st.Profile == nil {
		st.NotFound = true
		st.Error = MsgProfileNotFound
		return st, nil
	}
	// дальше только каноническое имя из профиля, а не то, что пришло в адресе
	name := st.Profile.Username
	failed := func(section string, err error) {
		logger.Warn("profile section error", zap.String("section", section), zap.String("username", name), zap.Error(err))
		st.Failed = append(st.Failed, section)
	}

	if st.Posts, err = api.Posts.List(ctx, name); err != nil {
		failed(SectionPosts, err)
	}
	if followers, err := api.Followers.Followers(ctx, name); err != nil {
		failed(SectionFollowers, err)
	} else {
		st.Followers = len(followers)
	}
	if following, err := api.Followers.Following(ctx, name); err != nil {
		failed(SectionFollowing, err)
	} else {
		st.Following = len(following)
	}

	me := v.deps.Session.Username()
	if me == "" {
		return st, nil
	}
	if edges, err := api.Followers.List(ctx, name, me); err != nil {
		failed(SectionFollow, err)
	} else {
		st.IsFollowing = len(edges) > 0
	}
	if blocks, err := api.Blocks.List(ctx); err != nil {
		failed(SectionBlocks, err)
	} else {
		for _, b := range blocks {
			if b.Blocked == name {
				st.IsBlocking = true
				break
			}
		}
	}
	return st, nil
}

// ToggleFollow flips the follow edge and reloads the whole page.
func (v *ProfileView) ToggleFollow(ctx context.Context) error {
	name := v.target()
	if _, err := v.deps.api().Followers.Toggle(ctx, name); err != nil {
		logger.Warn("follow error", zap.String("user", name), zap.Error(err))
		return err
	}
	return v.Load(ctx)
}

// ToggleBlock flips the block; blocking someone leaves their page.
func (v *ProfileView) ToggleBlock(ctx context.Context) error {
	name := v.target()
	res, err := v.deps.api().Blocks.Toggle(ctx, name)
	if err != nil {
		logger.Warn("block error", zap.String("user", name), zap.Error(err))
		return err
	}
	blocked := res.IsBlocked()
	v.mu.Lock()
	v.state.IsBlocking = blocked
	if blocked {
		v.state.IsFollowing = false
	}
	v.mu.Unlock()
	if blocked {
		v.deps.navigate(nav.Home)
	}
	return nil
}

func (v *ProfileView) PostDeleted(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Posts = removePost(v.state.Posts, id)
}

func (v *ProfileView) Card(post models.Post) *PostCard {
	return NewPostCard(v.deps, post, v.PostDeleted, nil)
}

func (v *ProfileView) IsOwnProfile() bool {
	return v.deps.Session.IsOwner(v.target())
}

// target is the username of the loaded profile, or the requested one before loading.
func (v *ProfileView) target() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.Profile != nil {
		return v.state.Profile.Username
	}
	return v.username
}

func (v *ProfileView) State() ProfileState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	s.Posts = append([]models.Post(nil), v.state.Posts...)
	s.Failed = append([]string(nil), v.state.Failed...)
	return s
}

type SettingsState struct {
	Bio      string
	Location string
	HasImage bool
	Loading  bool
	Error    string
	Success  string
}

// ProfileSettings edits the signed-in user's profile.
type ProfileSettings struct {
	deps Deps
	// RedirectDelay is how long the success message stays before leaving for the profile page.
	RedirectDelay time.Duration

	mu       sync.Mutex
	initial  models.Profile
	bio      string
	location string
	image    *client.Upload
	state    SettingsState
}

func NewProfileSettings(deps Deps) *ProfileSettings {
	v := &ProfileSettings{deps: deps, RedirectDelay: 1500 * time.Millisecond}
	v.Reset()
	return v
}

// Reset takes the form values from the session profile again.
func (v *ProfileSettings) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.initial = models.Profile{}
	if p := v.deps.Session.Profile(); p != nil {
		v.initial = *p
	}
	v.bio, v.location, v.image = v.initial.Bio, v.initial.Location, nil
	v.state = SettingsState{}
}

func (v *ProfileSettings) SetBio(bio string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bio = bio
}

func (v *ProfileSettings) SetLocation(location string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.location = location
}

func (v *ProfileSettings) SetImage(upload client.Upload) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.image = &upload
}

// Changes is the multipart form Submit would send: only edited fields plus the image.
func (v *ProfileSettings) Changes() *client.Form {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.changes()
}

func (v *ProfileSettings) changes() *client.Form {
	form := client.NewForm()
	if v.bio != v.initial.Bio {
		form.Set("bio", v.bio)
	}
	if v.location != v.initial.Location {
		form.Set("location", v.location)
	}
	if v.image != nil {
		form.File("profileimg", *v.image)
	}
	return form
}

func (v *ProfileSettings) Submit(ctx context.Context) error {
	v.mu.Lock()
	form := v.changes()
	v.state.Loading, v.state.Error, v.state.Success = true, "", ""
	v.mu.Unlock()

	err := v.deps.Session.UpdateProfile(ctx, form)

	v.mu.Lock()
	v.state.Loading = false
	if err != nil {
		v.state.Error = client.ErrorMessage(err, MsgProfileUpdateFailed)
		v.mu.Unlock()
		return err
	}
	if p := v.deps.Session.Profile(); p != nil {
		v.initial = *p
		v.bio, v.location = p.Bio, p.Location
	}
	v.image = nil
	v.state.Success = MsgProfileUpdated
	delay := v.RedirectDelay
	v.mu.Unlock()

	target := nav.ProfilePath(v.deps.Session.Username())
	if delay <= 0 {
		v.deps.navigate(target)
	} else {
		time.AfterFunc(delay, func() { v.deps.navigate(target) })
	}
	return nil
}

func (v *ProfileSettings) State() SettingsState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	s.Bio, s.Location, s.HasImage = v.bio, v.location, v.image != nil
	return s
}

type SearchState struct {
	Query   string
	Results []models.Profile
	Loading bool
}

// Search finds profiles by username substring.
type Search struct {
	deps Deps

	mu    sync.Mutex
	state SearchState
}

func NewSearch(deps Deps) *Search {
	return &Search{deps: deps}
}

// Run clears the results for a blank query without calling the API.
func (v *Search) Run(ctx context.Context, query string) {
	v.mu.Lock()
	v.state.Query = query
	if strings.TrimSpace(query) == "" {
		v.state.Results = nil
		v.mu.Unlock()
		return
	}
	v.state.Loading = true
	v.mu.Unlock()

	results, err := v.deps.api().Profiles.List(ctx, query)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Loading = false
	if err != nil {
		logger.Warn("search error", zap.String("query", query), zap.Error(err))
		v.state.Results = nil
		return
	}
	v.state.Results = results
}

// Lines renders each result as its username, followed by the bio when there is one.
func (v *Search) Lines() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	lines := make([]string, 0, len(v.state.Results))
	for _, p := range v.state.Results {
		if p.Bio != "" {
			lines = append(lines, p.Username+": "+p.Bio)
		} else {
			lines = append(lines, p.Username)
		}
	}
	return lines
}

// NoResults is true after a finished non-blank search that found nobody.
func (v *Search) NoResults() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Query != "" && len(v.state.Results) == 0 && !v.state.Loading
}

func (v *Search) Open(p models.Profile) {
	v.deps.navigate(nav.ProfilePath(p.Username))
}

func (v *Search) State() SearchState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	s.Results = append([]models.Profile(nil), v.state.Results...)
	return s
}
