package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/IgorGrieder/short-links/internal/constants"
	"github.com/IgorGrieder/short-links/internal/infrastructure/logger"
	appvalidation "github.com/IgorGrieder/short-links/internal/infrastructure/validation"
	"github.com/IgorGrieder/short-links/internal/processing/links"
	"github.com/IgorGrieder/short-links/pkg/httputils"
	"go.uber.org/zap"
)

type LinksHandler struct {
	svc            *links.Service
	redirectStatus int
}

type LinksHandlerOptions struct {
	// RedirectStatus is 301 or 302. Anything else falls back to 301.
	RedirectStatus int
}

func NewLinksHandler(svc *links.Service, opts LinksHandlerOptions) *LinksHandler {
	if opts.RedirectStatus != http.StatusFound {
		opts.RedirectStatus = http.StatusMovedPermanently
	}
	return &LinksHandler{svc: svc, redirectStatus: opts.RedirectStatus}
}

type createLinkRequest struct {
	Code string `json:"code" validate:"required,min=3"`
	URL  string `json:"url" validate:"required,notblank,http_url"`
}

type createLinkResponse struct {
	ShortLinkID int64 `json:"shortLinkId"`
}

// Create registers a new short link.
// @Summary      Create short link
// @Tags         Links
// @Accept       json
// @Produce      json
// @Success      201  {object}  createLinkResponse
// @Failure      400  {object}  httputils.ErrorResponse
// @Failure      500  {object}  httputils.ErrorResponse
// @Router       /api/links [post]
func (h *LinksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}
	if err := appvalidation.Validate(req); err != nil {
		apiErr := constants.ErrInvalidRequestBody
		switch field, _ := appvalidation.FirstField(err); field {
		case "code":
			apiErr = constants.ErrInvalidCode
		case "url":
			apiErr = constants.ErrInvalidURL
		}
		httputils.WriteAPIError(w, r, apiErr)
		return
	}

	link, err := h.svc.Register(r.Context(), links.RegisterInput{
		Code: req.Code,
		URL:  req.URL,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create link", zap.String("code", req.Code))
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessLinkCreated, createLinkResponse{
		ShortLinkID: link.ID,
	})
}

// List returns every stored link.
// @Summary      List links
// @Tags         Links
// @Produce      json
// @Success      200  {array}   links.ShortLink
// @Failure      500  {object}  httputils.ErrorResponse
// @Router       /api/links [get]
func (h *LinksHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list links")
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessLinksListed, all)
}

func (h *LinksHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	link, err := h.svc.Resolve(r.Context(), code)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to resolve code", zap.String("code", code))
		return
	}

	w.Header().Set("Location", link.OriginalURL)
	w.WriteHeader(h.redirectStatus)
}

// Metrics returns the click leaderboard.
// @Summary      Click metrics
// @Tags         Metrics
// @Produce      json
// @Param        limit  query  int  false  "score ceiling, or entry count in rank mode"
// @Success      200  {array}   links.ClickTally
// @Failure      400  {object}  httputils.ErrorResponse
// @Failure      500  {object}  httputils.ErrorResponse
// @Router       /api/metrics [get]
func (h *LinksHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r.URL.Query().Get("limit"))
	if !ok {
		httputils.WriteAPIError(w, r, constants.ErrInvalidLimit)
		return
	}

	tallies, err := h.svc.TopClicks(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to read click metrics")
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessMetricsFound, tallies)
}

// writeServiceError maps service sentinels to API errors. Anything unmapped
// is logged and reported as an internal error.
func (h *LinksHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string, fields ...zap.Field) {
	switch {
	case errors.Is(err, links.ErrNotFound):
		httputils.WriteAPIError(w, r, constants.ErrLinkNotFound)
	case errors.Is(err, links.ErrCodeInUse):
		httputils.WriteAPIError(w, r, constants.ErrCodeInUse)
	case links.IsValidationError(err):
		apiErr := constants.ErrInvalidCode
		if errors.Is(err, links.ErrInvalidURL) {
			apiErr = constants.ErrInvalidURL
		}
		httputils.WriteAPIError(w, r, apiErr)
	default:
		correlationID := httputils.WriteAPIError(w, r, constants.ErrInternalError)
		fields = append(fields,
			zap.Error(err),
			zap.String("code", constants.ErrInternalError.Code),
			zap.String("correlation_id", correlationID),
		)
		logger.Error(msg, fields...)
	}
}

// parseLimit accepts an empty value (service default) or a positive integer.
func parseLimit(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
