package routes

import (
	"socialbook/api/handlers"

	"github.com/gin-gonic/gin"
)

// PublicApi регистрирует REST API под /api; auth защищает все, кроме signup/login
func PublicApi(router *gin.Engine, h *handlers.Handler, auth gin.HandlerFunc) *gin.RouterGroup {
	publicEndpoints := router.Group("/api/")
	{
		publicEndpoints.POST("auth/signup/", h.Signup)
		publicEndpoints.POST("auth/login/", h.Login)
	}

	private := publicEndpoints.Group("/", auth)
	{
		private.POST("auth/logout/", h.Logout)
		private.GET("auth/user/", h.UserInfo)

		// Профили
		private.GET("profiles/", h.ListProfiles)
		private.POST("profiles/", h.CreateProfile)
		private.GET("profiles/me/", h.MyProfile)
		private.PUT("profiles/update_me/", h.UpdateMyProfile)
		private.PATCH("profiles/update_me/", h.UpdateMyProfile)
		private.GET("profiles/:id/", h.GetProfile)
		private.PUT("profiles/:id/", h.UpdateProfile)
		private.PATCH("profiles/:id/", h.UpdateProfile)

		// Посты
		private.GET("posts/", h.ListPosts)
		private.POST("posts/", h.CreatePost)
		private.GET("posts/feed/", h.Feed)
		private.GET("posts/suggestions/", h.Suggestions)
		private.GET("posts/:id/", h.GetPost)
		private.PUT("posts/:id/", h.UpdatePost)
		private.PATCH("posts/:id/", h.UpdatePost)
		private.DELETE("posts/:id/", h.DeletePost)
		private.POST("posts/:id/like/", h.LikePost)
		private.DELETE("posts/:id/like/", h.UnlikePost)

		// Комментарии
		private.GET("comments/", h.ListComments)
		private.POST("comments/", h.CreateComment)
		private.GET("comments/:id/", h.GetComment)
		private.DELETE("comments/:id/", h.DeleteComment)

		// Подписки
		private.GET("followers/", h.ListFollows)
		private.POST("followers/toggle/", h.ToggleFollow)
		private.GET("followers/followers/", h.Followers)
		private.GET("followers/following/", h.Following)

		// Уведомления
		private.GET("notifications/", h.ListNotifications)
		private.POST("notifications/mark_all_read/", h.MarkAllNotificationsRead)
		private.GET("notifications/:id/", h.GetNotification)
		private.POST("notifications/:id/mark_read/", h.MarkNotificationRead)

		// Блокировки
		private.GET("blocks/", h.ListBlocks)
		private.POST("blocks/", h.CreateBlock)
		private.POST("blocks/toggle/", h.ToggleBlock)
		private.DELETE("blocks/:id/", h.DeleteBlock)

		private.GET("ws/notifications/", h.NotificationsWS)
	}
	return publicEndpoints
}
