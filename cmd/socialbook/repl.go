package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"socialbook/client"
	"socialbook/config"
	"socialbook/models"
	"socialbook/nav"
	"socialbook/scheduler"
	"socialbook/session"
	"socialbook/views"
)

var errUsage = errors.New("wrong arguments, see help")

const helpText = `commands:
  signup <username> <email> <password> <password again>
  login <username> <password>     logout      whoami
  feed                            suggestions
  post <image path> [caption]     like <post id>      delete <post id>
  comments <post id>              comment <post id> <text>
  uncomment <post id> <comment id>
  profile <username>              follow <username>   block <username>
  search <query>                  settings bio|location <value>
  avatar <image path>             notifications       read <id>   readall
  open <notification id>          where               help        quit`

// repl - терминальный клиент поверх views
type repl struct {
	deps    views.Deps
	history *nav.History
	cron    *scheduler.Cron
	navbar  *views.Navbar
	notifs  *views.Notifications
	out     io.Writer

	// cards of the posts shown last, by id
	cards map[string]*views.PostCard
}

func newREPL(conf *config.ConfigSchema, out io.Writer) (*repl, error) {
	history := nav.NewHistory(nav.Home)
	api, err := client.New(conf.Client.BaseURL,
		client.WithNavigator(history),
		client.WithLoginPath(conf.Client.LoginPath),
	)
	if err != nil {
		return nil, err
	}
	cron := scheduler.NewCron()
	deps := views.Deps{
		Session:      session.New(api),
		Nav:          history,
		Scheduler:    cron,
		PollInterval: conf.Client.PollInterval,
	}
	return &repl{
		deps:    deps,
		history: history,
		cron:    cron,
		navbar:  views.NewNavbar(deps),
		notifs:  views.NewNotifications(deps),
		out:     out,
		cards:   make(map[string]*views.PostCard),
	}, nil
}

func (r *repl) Close() {
	r.notifs.Unmount()
	r.navbar.Unmount()
	r.cron.Stop()
}

func (r *repl) prompt() string {
	name := r.deps.Session.Username()
	if name == "" {
		return fmt.Sprintf("[%s] > ", r.history.Current())
	}
	return fmt.Sprintf("[%s %s (%d)] > ", name, r.history.Current(), r.navbar.Unread())
}

func (r *repl) Run(ctx context.Context, in io.Reader) {
	state := r.deps.Session.Init(ctx)
	r.navbar.Mount(ctx)
	fmt.Fprintf(r.out, "session: %s\n", state)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	for {
		fmt.Fprint(r.out, r.prompt())
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if err := r.Exec(ctx, line); err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				fmt.Fprintln(r.out, "error:", err)
			}
		}
	}
}

// Exec runs one command line. io.EOF means quit.
func (r *repl) Exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "help":
		fmt.Fprintln(r.out, helpText)
	case "quit", "exit":
		return io.EOF
	case "where":
		fmt.Fprintln(r.out, strings.Join(r.history.Trail(), " -> "))
	case "whoami":
		return r.whoami()
	case "signup":
		if len(args) != 4 {
			return errUsage
		}
		v := views.NewSignup(r.deps)
		v.Submit(ctx, session.SignupForm{Username: args[0], Email: args[1], Password: args[2], Password2: args[3]})
		return stateError(v.State())
	case "login":
		if len(args) != 2 {
			return errUsage
		}
		v := views.NewLogin(r.deps)
		v.Submit(ctx, args[0], args[1])
		return stateError(v.State())
	case "logout":
		r.notifs.Unmount()
		r.navbar.Logout(ctx)
	case "feed":
		return r.feed(ctx)
	case "suggestions":
		return r.suggestions(ctx, "")
	case "post":
		return r.post(ctx, args)
	case "like":
		card, err := r.card(args)
		if err != nil {
			return err
		}
		card.ToggleLike(ctx)
		st := card.State()
		fmt.Fprintf(r.out, "liked=%t likes=%d\n", st.Post.IsLiked, st.Post.NoOfLikes)
	case "delete":
		card, err := r.card(args)
		if err != nil {
			return err
		}
		if !card.CanDelete() {
			return errors.New("only the author can delete this post")
		}
		if err = card.Delete(ctx); err != nil {
			return errors.New(card.State().Error)
		}
		delete(r.cards, args[0])
	case "comments":
		card, err := r.card(args)
		if err != nil {
			return err
		}
		if !card.State().ShowComments {
			card.ToggleComments(ctx)
		}
		r.printComments(card)
	case "comment":
		if len(args) < 2 {
			return errUsage
		}
		card, err := r.card(args[:1])
		if err != nil {
			return err
		}
		if err = card.AddComment(ctx, strings.Join(args[1:], " ")); err != nil {
			return err
		}
		r.printComments(card)
	case "uncomment":
		if len(args) != 2 {
			return errUsage
		}
		card, err := r.card(args[:1])
		if err != nil {
			return err
		}
		return card.DeleteComment(ctx, args[1])
	case "profile":
		if len(args) != 1 {
			return errUsage
		}
		return r.profile(ctx, args[0])
	case "follow":
		if len(args) != 1 {
			return errUsage
		}
		return r.suggestions(ctx, args[0])
	case "block":
		if len(args) != 1 {
			return errUsage
		}
		v := views.NewProfileView(r.deps, args[0])
		if err := v.ToggleBlock(ctx); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "blocked=%t\n", v.State().IsBlocking)
	case "search":
		v := views.NewSearch(r.deps)
		v.Run(ctx, strings.Join(args, " "))
		if v.NoResults() {
			fmt.Fprintln(r.out, "no users found")
		}
		for _, l := range v.Lines() {
			fmt.Fprintln(r.out, l)
		}
	case "settings":
		if len(args) < 2 {
			return errUsage
		}
		v := views.NewProfileSettings(r.deps)
		v.RedirectDelay = 0
		value := strings.Join(args[1:], " ")
		switch args[0] {
		case "bio":
			v.SetBio(value)
		case "location":
			v.SetLocation(value)
		default:
			return errUsage
		}
		return r.saveSettings(ctx, v)
	case "avatar":
		if len(args) != 1 {
			return errUsage
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		v := views.NewProfileSettings(r.deps)
		v.RedirectDelay = 0
		v.SetImage(client.Upload{Filename: filepath.Base(args[0]), Content: f})
		return r.saveSettings(ctx, v)
	case "notifications":
		return r.notifications(ctx)
	case "read", "open":
		id, err := r.notificationID(args)
		if err != nil {
			return err
		}
		if cmd == "read" {
			return r.notifs.MarkRead(ctx, id)
		}
		for _, n := range r.notifs.State().Items {
			if n.ID == id {
				r.notifs.Open(ctx, n)
				return nil
			}
		}
		return fmt.Errorf("notification %d is not loaded", id)
	case "readall":
		return r.notifs.MarkAllRead(ctx)
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func stateError(st views.FormState) error {
	if st.Error != "" {
		return errors.New(st.Error)
	}
	return nil
}

func (r *repl) whoami() error {
	u, p := r.deps.Session.User(), r.deps.Session.Profile()
	if u == nil {
		fmt.Fprintln(r.out, r.deps.Session.State())
		return nil
	}
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "username\t%s\n", u.Username)
	fmt.Fprintf(w, "email\t%s\n", u.Email)
	if p != nil {
		fmt.Fprintf(w, "bio\t%s\n", p.Bio)
		fmt.Fprintf(w, "location\t%s\n", p.Location)
		fmt.Fprintf(w, "image\t%s\n", p.ProfileImgURL)
	}
	return w.Flush()
}

func (r *repl) showPosts(posts []models.Post, card func(models.Post) *views.PostCard) error {
	if len(posts) == 0 {
		fmt.Fprintln(r.out, "no posts")
		return nil
	}
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAUTHOR\tLIKES\tCOMMENTS\tCAPTION")
	for _, p := range posts {
		r.cards[p.ID] = card(p)
		liked := ""
		if p.IsLiked {
			liked = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%d%s\t%d\t%s\n", p.ID, p.User, p.NoOfLikes, liked, p.CommentsCount, p.Caption)
	}
	return w.Flush()
}

func (r *repl) feed(ctx context.Context) error {
	feed := views.NewFeed(r.deps)
	if err := feed.Load(ctx); err != nil {
		return errors.New(feed.State().Error)
	}
	return r.showPosts(feed.State().Posts, feed.Card)
}

// suggestions lists suggested users; with a username it follows them first.
func (r *repl) suggestions(ctx context.Context, follow string) error {
	v := views.NewUserSuggestions(r.deps)
	if follow != "" {
		v.Follow(ctx, follow)
	} else {
		v.Load(ctx)
	}
	for _, p := range v.State().Profiles {
		fmt.Fprintf(r.out, "%s\t%s\n", p.Username, p.Bio)
	}
	return nil
}

func (r *repl) post(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	v := views.NewCreatePost(r.deps, nil)
	v.SetCaption(strings.Join(args[1:], " "))
	v.SetImage(client.Upload{Filename: filepath.Base(args[0]), Content: f})
	post, err := v.Submit(ctx)
	if err != nil {
		return errors.New(v.State().Error)
	}
	r.cards[post.ID] = views.NewPostCard(r.deps, *post, nil, nil)
	fmt.Fprintln(r.out, "created", post.ID)
	return nil
}

func (r *repl) card(args []string) (*views.PostCard, error) {
	if len(args) != 1 {
		return nil, errUsage
	}
	card, ok := r.cards[args[0]]
	if !ok {
		return nil, fmt.Errorf("post %s is not on screen, run feed or profile first", args[0])
	}
	return card, nil
}

func (r *repl) printComments(card *views.PostCard) {
	for _, c := range card.State().Comments {
		fmt.Fprintf(r.out, "%s\t%s: %s\n", c.ID, c.User, c.Body)
	}
}

func (r *repl) profile(ctx context.Context, username string) error {
	v := views.NewProfileView(r.deps, username)
	if err := v.Load(ctx); err != nil || v.State().NotFound {
		return errors.New(v.State().Error)
	}
	st := v.State()
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "username\t%s\n", st.Profile.Username)
	fmt.Fprintf(w, "bio\t%s\n", st.Profile.Bio)
	fmt.Fprintf(w, "location\t%s\n", st.Profile.Location)
	fmt.Fprintf(w, "followers\t%d\n", st.Followers)
	fmt.Fprintf(w, "following\t%d\n", st.Following)
	if !v.IsOwnProfile() {
		fmt.Fprintf(w, "you follow\t%t\n", st.IsFollowing)
		fmt.Fprintf(w, "you block\t%t\n", st.IsBlocking)
	}
	if len(st.Failed) > 0 {
		fmt.Fprintf(w, "not loaded\t%s\n", strings.Join(st.Failed, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return r.showPosts(st.Posts, v.Card)
}

func (r *repl) saveSettings(ctx context.Context, v *views.ProfileSettings) error {
	if err := v.Submit(ctx); err != nil {
		return errors.New(v.State().Error)
	}
	fmt.Fprintln(r.out, v.State().Success)
	return nil
}

func (r *repl) notifications(ctx context.Context) error {
	r.notifs.Mount(ctx)
	st := r.notifs.State()
	if len(st.Items) == 0 {
		fmt.Fprintln(r.out, "no notifications")
		return nil
	}
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t\tWHEN\tWHAT\t(%d unread)\n", st.Unread)
	for _, n := range st.Items {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s %s\n", n.ID, mark, n.Timestamp.Format("2006-01-02 15:04"), n.Actor, n.Verb)
	}
	return w.Flush()
}

func (r *repl) notificationID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	return strconv.ParseInt(args[0], 10, 64)
}
