// Package catalogdelivery manages delivery layer of banners and payable services.
package catalogdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/web"
)

// MsgList is returned with every successful listing.
const MsgList = "Sukses"

// Service provides service layer interface needed by catalog delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package catalogdelivery
type Service interface {
	ListBanners(ctx context.Context) ([]domain.Banner, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
}

// Handler facilitates catalog delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns catalog handler.
func NewHandler(cs Service) Handler {
	return Handler{service: cs}
}

// ListBanners handles http request to list banners.
func (h *Handler) ListBanners(gctx *gin.Context) {
	banners, err := h.service.ListBanners(gctx.Request.Context())
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.OK(MsgList, banners))
}

// ListServices handles http request to list payable services.
func (h *Handler) ListServices(gctx *gin.Context) {
	services, err := h.service.ListServices(gctx.Request.Context())
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.OK(MsgList, services))
}
