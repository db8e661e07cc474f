package routers

import (
	"video-svc/internal/delivery/http/handlers"
	"video-svc/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupVideoRoutes(app *fiber.App, videoHandler *handlers.VideoHandler, userHeader string) {
	video := app.Group("/video", middleware.Principal(userHeader))

	// search rotaları /:id'den önce
	video.Get("/search/findByName", videoHandler.FindByName)
	video.Get("/search/findByDurationLessThan", videoHandler.FindByDurationLessThan)

	video.Get("/", videoHandler.GetVideos)
	video.Post("/", videoHandler.AddVideo)
	video.Get("/:id", videoHandler.GetVideo)
	video.Post("/:id/like", videoHandler.LikeVideo)
	video.Post("/:id/unlike", videoHandler.UnlikeVideo)
	video.Get("/:id/likedby", videoHandler.LikedBy)
	video.Post("/:id/data", videoHandler.SetVideoData)
	video.Get("/:id/data", videoHandler.GetVideoData)
}
