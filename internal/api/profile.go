package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/middleware"
	"github.com/seeek/portfolio/backend/internal/service"
	"github.com/seeek/portfolio/backend/internal/types"
	"github.com/seeek/portfolio/backend/internal/upload"
)

// ProfileHandler serves the user record and upload routes
type ProfileHandler struct {
	users service.IUserService
}

func NewProfileHandler(users service.IUserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	{
		legacy := user.Group("", middleware.ConflictStatus(http.StatusBadRequest))
		legacy.POST("/register", h.RegisterProfile)
		legacy.POST("/create-profile", h.CreateProfile)

		user.GET("/auth/profile-status", h.ProfileStatus)
		user.GET("/list_users", h.ListUsers)
		user.GET("/:email", h.GetUser)
		user.PUT("/update/:userId", h.UpdateUser)
		user.POST("/upload_profile_pic/:userId", h.UploadPicture)
		user.POST("/upload_files/:userId", h.UploadFiles)
	}
}

// formFile opens the named multipart part. A missing part yields a nil file.
func formFile(c *gin.Context, name string) (*upload.File, io.Closer, error) {
	header, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, apperr.BadRequest("Invalid multipart form")
	}
	return openPart(header)
}

func openPart(header *multipart.FileHeader) (*upload.File, io.Closer, error) {
	f, err := header.Open()
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return &upload.File{Filename: header.Filename, Size: header.Size, Content: f}, f, nil
}

// formFiles opens the picture and files parts shared by the profile forms
func formFiles(c *gin.Context) (picture, file *upload.File, closeAll func(), err error) {
	var closers []io.Closer
	closeAll = func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}

	picture, pc, err := formFile(c, "picture")
	if err != nil {
		return nil, nil, closeAll, err
	}
	if pc != nil {
		closers = append(closers, pc)
	}
	file, fc, err := formFile(c, "files")
	if err != nil {
		return nil, nil, closeAll, err
	}
	if fc != nil {
		closers = append(closers, fc)
	}
	return picture, file, closeAll, nil
}

// RegisterProfile creates a complete account from the multipart registration form
func (h *ProfileHandler) RegisterProfile(c *gin.Context) {
	var req types.RegisterProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(apperr.BadRequest("Missing required fields"))
		return
	}

	picture, file, closeAll, err := formFiles(c)
	defer closeAll()
	if err != nil {
		_ = c.Error(err)
		return
	}

	if _, err := h.users.RegisterProfile(c.Request.Context(), &req, picture, file); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// CreateProfile fills in the profile of an existing account
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req types.CreateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(apperr.BadRequest("Invalid form data"))
		return
	}

	picture, file, closeAll, err := formFiles(c)
	defer closeAll()
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), req.Email, &req.ProfileFields, picture, file)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

// ProfileStatus lists what a user's profile still lacks
func (h *ProfileHandler) ProfileStatus(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		_ = c.Error(apperr.BadRequest("Email is required"))
		return
	}

	status, err := h.users.ProfileStatus(c.Request.Context(), email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *ProfileHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *ProfileHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser writes profile columns from a JSON object
func (h *ProfileHandler) UpdateUser(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		_ = c.Error(apperr.BadRequest("No data provided for update"))
		return
	}

	user, err := h.users.UpdateByID(c.Request.Context(), c.Param("userId"), fields)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User profile updated successfully", "user": user})
}

type uploadFunc func(c *gin.Context, id string, file *upload.File) (string, error)

func (h *ProfileHandler) upload(c *gin.Context, store uploadFunc) (string, bool) {
	file, closer, err := formFile(c, "file")
	if closer != nil {
		defer closer.Close()
	}
	if err != nil {
		_ = c.Error(err)
		return "", false
	}
	if file == nil {
		_ = c.Error(apperr.BadRequest("No file part"))
		return "", false
	}

	name, err := store(c, c.Param("userId"), file)
	if err != nil {
		_ = c.Error(err)
		return "", false
	}
	return name, true
}

func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	name, ok := h.upload(c, func(c *gin.Context, id string, f *upload.File) (string, error) {
		return h.users.UploadPicture(c.Request.Context(), id, f)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile picture uploaded successfully!", "picture": name})
}

func (h *ProfileHandler) UploadFiles(c *gin.Context) {
	name, ok := h.upload(c, func(c *gin.Context, id string, f *upload.File) (string, error) {
		return h.users.UploadFiles(c.Request.Context(), id, f)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Files uploaded successfully!", "files": name})
}
