// Package userdelivery manages delivery layer of users.
package userdelivery

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/middleware"
	"github.com/go-petr/pet-wallet/internal/userservice"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/web"
)

// Success messages.
const (
	MsgRegister     = "Registrasi berhasil silahkan login"
	MsgLogin        = "Login Sukses"
	MsgProfile      = "Sukses"
	MsgUpdate       = "Update Pofile berhasil"
	MsgUpdateImage  = "Update Profile Image berhasil"
	imageFormField  = "file"
	imagesURLPrefix = "/images/"
)

// Accepted profile image types and their file extensions.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	Register(ctx context.Context, arg userservice.RegisterParams) error
	Login(ctx context.Context, email, password string) (string, error)
	GetProfile(ctx context.Context, userID int64) (domain.Profile, error)
	UpdateProfile(ctx context.Context, arg domain.UpdateProfileParams) (domain.Profile, error)
	UpdateProfileImage(ctx context.Context, userID int64, imageURL string) (domain.Profile, error)
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service   Service
	uploadDir string
	baseURL   string
}

// NewHandler returns user handler.
//
// Profile images are stored in uploadDir and served under baseURL + "/images/".
func NewHandler(us Service, uploadDir, baseURL string) *Handler {
	return &Handler{
		service:   us,
		uploadDir: uploadDir,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

// Register handles http request to create user.
func (h *Handler) Register(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req registerRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err, "Parameter tidak valid"))

		return
	}

	arg := userservice.RegisterParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}

	if err := h.service.Register(ctx, arg); err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.OK(MsgRegister, nil))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginData struct {
	Token string `json:"token"`
}

// Login handles http request to log in user.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err, "Parameter tidak valid"))

		return
	}

	token, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.OK(MsgLogin, loginData{token}))
}

// GetProfile handles http request to get the caller's profile.
func (h *Handler) GetProfile(gctx *gin.Context) {
	payload := middleware.Payload(gctx)

	profile, err := h.service.GetProfile(gctx.Request.Context(), payload.UserID)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.OK(MsgProfile, profile))
}

type updateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// UpdateProfile handles http request to change the caller's names.
func (h *Handler) UpdateProfile(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req updateProfileRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err, "Parameter tidak valid"))

		return
	}

	payload := middleware.Payload(gctx)

	arg := domain.UpdateProfileParams{
		UserID:    payload.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	profile, err := h.service.UpdateProfile(ctx, arg)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.OK(MsgUpdate, profile))
}

// UpdateProfileImage handles http request to upload the caller's profile image.
//
// Only jpeg and png images are accepted; the type is detected from the content.
func (h *Handler) UpdateProfileImage(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	file, err := gctx.FormFile(imageFormField)
	if err != nil {
		l.Info().Err(err).Send()
		writeError(gctx, domain.ErrInvalidImageFormat)

		return
	}

	ext, err := detectImage(file)
	if err != nil {
		l.Info().Err(err).Str("filename", file.Filename).Send()
		writeError(gctx, err)

		return
	}

	name := uuid.NewString() + ext

	if err := gctx.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		l.Error().Err(err).Send()
		writeError(gctx, errorspkg.ErrInternal)

		return
	}

	payload := middleware.Payload(gctx)

	profile, err := h.service.UpdateProfileImage(ctx, payload.UserID, h.baseURL+imagesURLPrefix+name)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.OK(MsgUpdateImage, profile))
}

// detectImage returns the file extension of an accepted image.
func detectImage(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)

	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	ext, ok := imageExtensions[http.DetectContentType(head[:n])]
	if !ok {
		return "", domain.ErrInvalidImageFormat
	}

	return ext, nil
}

func writeError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrEmailAlreadyExists:
		gctx.JSON(http.StatusConflict, web.Error(err))
	case domain.ErrWrongCredentials:
		gctx.JSON(http.StatusUnauthorized, web.Fail(web.StatusWrongCredentials, err.Error()))
	case domain.ErrInvalidImageFormat:
		gctx.JSON(http.StatusBadRequest, web.Fail(web.StatusBadParameter, err.Error()))
	case domain.ErrUserNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}
