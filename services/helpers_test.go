package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"socialbook/db"
	"socialbook/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	db            *db.Manager
	bus           *LocalEventBus
	media         *MediaStore
	users         *UserService
	profiles      *ProfileService
	posts         *PostService
	comments      *CommentService
	follows       *FollowService
	blocks        *BlockService
	notifications *NotificationService
}

func newTestDB(t *testing.T) *db.Manager {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	orm, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := orm.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(orm))
	manager := db.Wrap(orm)
	t.Cleanup(func() { _ = manager.Close() })
	return manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	manager := newTestDB(t)
	media, err := NewMediaStore(t.TempDir())
	require.NoError(t, err)
	bus := NewLocalEventBus()

	f := &fixture{db: manager, bus: bus, media: media}
	f.users = NewUserService(manager)
	f.profiles = NewProfileService(manager, media)
	f.notifications = NewNotificationService(manager, bus)
	f.posts = NewPostService(manager, media, f.profiles, f.notifications)
	f.comments = NewCommentService(manager, f.profiles, f.notifications)
	f.follows = NewFollowService(manager, f.users, f.profiles, f.notifications)
	f.blocks = NewBlockService(manager, f.profiles, f.users)
	return f
}

func (f *fixture) register(t *testing.T, username string) Viewer {
	t.Helper()
	user, _, err := f.users.Register(context.Background(), models.SignupRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "secret-pass",
		Password2: "secret-pass",
	})
	require.NoError(t, err)
	return Viewer{UserID: user.ID, Username: user.Username, MediaBase: "http://testserver/media/"}
}

func (f *fixture) post(t *testing.T, v Viewer, caption string) *models.Post {
	t.Helper()
	post, err := f.posts.Create(context.Background(), v, caption, &Upload{Filename: "photo.png", Content: strings.NewReader("png-bytes")})
	require.NoError(t, err)
	return post
}
