// Package ledgerdelivery manages delivery layer of balances, top ups and payments.
package ledgerdelivery

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/middleware"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/web"
)

// Success messages.
const (
	MsgBalance = "Get Balance Berhasil"
	MsgTopUp   = "Top Up Balance berhasil"
	MsgPayment = "Get Balance Berhasil"
	MsgHistory = "Get History Berhasil"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	GetBalance(ctx context.Context, userID int64) (int64, error)
	TopUp(ctx context.Context, userID, amount int64) (int64, error)
	Payment(ctx context.Context, userID int64, serviceCode string) (int64, error)
	GetHistory(ctx context.Context, arg domain.ListHistoryParams) ([]domain.HistoryEntry, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(ls Service) Handler {
	return Handler{service: ls}
}

type balanceData struct {
	Balance int64 `json:"balance"`
}

// GetBalance handles http request to get the caller's balance.
func (h *Handler) GetBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	payload := middleware.Payload(gctx)

	balance, err := h.service.GetBalance(ctx, payload.UserID)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.OK(MsgBalance, balanceData{balance}))
}

type topUpRequest struct {
	TopUpAmount json.Number `json:"top_up_amount" binding:"required"`
}

// TopUp handles http request to credit the caller's balance.
func (h *Handler) TopUp(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req topUpRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err, web.AmountMessage))

		return
	}

	amount, ok := web.ParseAmount(req.TopUpAmount.String())
	if !ok {
		gctx.JSON(http.StatusBadRequest, web.Fail(web.StatusBadParameter, web.AmountMessage))
		return
	}

	payload := middleware.Payload(gctx)

	balance, err := h.service.TopUp(ctx, payload.UserID, amount)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.OK(MsgTopUp, balanceData{balance}))
}

type paymentRequest struct {
	ServiceCode string `json:"service_code" binding:"required"`
}

// Payment handles http request to pay for a service from the caller's balance.
func (h *Handler) Payment(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req paymentRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err, "Paramter service_code tidak sesuai format"))

		return
	}

	payload := middleware.Payload(gctx)

	balance, err := h.service.Payment(ctx, payload.UserID, req.ServiceCode)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.OK(MsgPayment, balanceData{balance}))
}

type historyRequest struct {
	Limit  int32 `form:"limit" json:"limit" binding:"min=0"`
	Offset int32 `form:"offset" json:"offset" binding:"min=0"`
}

// GetHistory handles http request to list the caller's transactions.
func (h *Handler) GetHistory(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req historyRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err, "Paramter limit atau offset tidak sesuai format"))

		return
	}

	payload := middleware.Payload(gctx)

	arg := domain.ListHistoryParams{
		UserID: payload.UserID,
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	history, err := h.service.GetHistory(ctx, arg)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.OK(MsgHistory, history))
}

func writeError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrServiceNotFound, domain.ErrInsufficientBalance:
		gctx.JSON(http.StatusBadRequest, web.Fail(web.StatusBadParameter, err.Error()))
	case domain.ErrInvalidAmount:
		gctx.JSON(http.StatusBadRequest, web.Fail(web.StatusBadParameter, web.AmountMessage))
	case domain.ErrUserNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}
