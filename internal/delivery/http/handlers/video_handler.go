package handlers

import (
	"errors"
	"strconv"

	"video-svc/internal/delivery/http/middleware"
	"video-svc/internal/domain/dto"
	"video-svc/internal/usecases"
	apperrors "video-svc/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type VideoHandler struct {
	videoService usecases.VideoService
	log          *zap.Logger
}

func NewVideoHandler(videoService usecases.VideoService, log *zap.Logger) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		log:          log,
	}
}

// GetVideos
//
// @Summary      List videos
// @Description  Returns every stored video
// @Tags         Video
// @Produce      json
// @Success      200  {array}   dto.VideoDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /video [get]
func (h *VideoHandler) GetVideos(c *fiber.Ctx) error {
	videos, err := h.videoService.FindAllVideos(c.UserContext())
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(videos)
}

// AddVideo
//
// @Summary      Create video
// @Description  Stores a new video; id and dataUrl are assigned by the server
// @Tags         Video
// @Accept       json
// @Produce      json
// @Param        video  body      dto.CreateVideoRequestDTO  true  "Video metadata"
// @Success      200    {object}  dto.VideoDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /video [post]
func (h *VideoHandler) AddVideo(c *fiber.Ctx) error {
	var req dto.CreateVideoRequestDTO
	if err := c.BodyParser(&req); err != nil {
		return apperrors.HandleError(c, h.log, apperrors.ErrInvalidRequest(err))
	}

	video, err := h.videoService.AddVideo(c.UserContext(), &req)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(video)
}

// GetVideo
//
// @Summary      Get video
// @Tags         Video
// @Produce      json
// @Param        id   path      int  true  "Video ID"
// @Success      200  {object}  dto.VideoDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /video/{id} [get]
func (h *VideoHandler) GetVideo(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}

	video, err := h.videoService.FindVideoByID(c.UserContext(), id)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(video)
}

// LikeVideo
//
// @Summary      Like video
// @Description  Adds the caller to the video's likers; a second like by the same caller is rejected
// @Tags         Like
// @Produce      json
// @Param        id      path    int     true  "Video ID"
// @Param        X-User  header  string  true  "Caller identity"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse  "Already liked"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /video/{id}/like [post]
func (h *VideoHandler) LikeVideo(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}

	if err := h.videoService.LikeVideo(c.UserContext(), id, middleware.User(c)); err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// UnlikeVideo
//
// @Summary      Unlike video
// @Description  Removes the caller from the video's likers; requires a prior like
// @Tags         Like
// @Produce      json
// @Param        id      path    int     true  "Video ID"
// @Param        X-User  header  string  true  "Caller identity"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse  "Not liked"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /video/{id}/unlike [post]
func (h *VideoHandler) UnlikeVideo(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}

	if err := h.videoService.UnlikeVideo(c.UserContext(), id, middleware.User(c)); err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// LikedBy
//
// @Summary      Likers of a video
// @Tags         Like
// @Produce      json
// @Param        id   path      int  true  "Video ID"
// @Success      200  {array}   string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /video/{id}/likedby [get]
func (h *VideoHandler) LikedBy(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}

	likers, err := h.videoService.FindLikedBy(c.UserContext(), id)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(likers)
}

// FindByName
//
// @Summary      Search by title
// @Description  Exact title match
// @Tags         Search
// @Produce      json
// @Param        title  query     string  true  "Title"
// @Success      200    {array}   dto.VideoDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /video/search/findByName [get]
func (h *VideoHandler) FindByName(c *fiber.Ctx) error {
	// boş başlık geçerli, parametrenin hiç olmaması değil
	if !c.Context().QueryArgs().Has("title") {
		return apperrors.HandleError(c, h.log, apperrors.ErrInvalidRequest(errors.New("missing title parameter")))
	}

	videos, err := h.videoService.FindByName(c.UserContext(), c.Query("title"))
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(videos)
}

// FindByDurationLessThan
//
// @Summary      Search by duration
// @Description  Videos whose duration is strictly less than the given value
// @Tags         Search
// @Produce      json
// @Param        duration  query     int  true  "Upper bound (exclusive)"
// @Success      200       {array}   dto.VideoDTO
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /video/search/findByDurationLessThan [get]
func (h *VideoHandler) FindByDurationLessThan(c *fiber.Ctx) error {
	duration, err := strconv.ParseInt(c.Query("duration"), 10, 64)
	if err != nil {
		return apperrors.HandleError(c, h.log, apperrors.ErrInvalidRequest(err))
	}

	videos, err := h.videoService.FindByDurationLessThan(c.UserContext(), duration)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(videos)
}

// SetVideoData
//
// @Summary      Upload video data
// @Tags         Data
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "Video ID"
// @Param        data  formData  file  true  "Video binary"
// @Success      200   {object}  dto.VideoStatusDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /video/{id}/data [post]
func (h *VideoHandler) SetVideoData(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}

	fileHeader, err := c.FormFile("data")
	if err != nil {
		return apperrors.HandleError(c, h.log, apperrors.ErrInvalidRequest(err))
	}
	f, err := fileHeader.Open()
	if err != nil {
		return apperrors.HandleError(c, h.log, apperrors.ErrInternal(err))
	}
	defer f.Close()

	status, err := h.videoService.SaveVideoData(c.UserContext(), id, f, fileHeader.Size, fileHeader.Filename)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(status)
}

// GetVideoData
//
// @Summary      Download video data
// @Tags         Data
// @Produce      octet-stream
// @Param        id   path  int  true  "Video ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /video/{id}/data [get]
func (h *VideoHandler) GetVideoData(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}

	rc, err := h.videoService.GetVideoData(c.UserContext(), id)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	// fasthttp closes rc once the body is written
	return c.SendStream(rc)
}

func parseID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.ErrInvalidRequest(errors.New("invalid video id: " + raw))
	}
	return id, nil
}
