// Package api exposes the codecs and the batch pipeline over HTTP/JSON.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/avolkov/qrforge/internal/batch"
	"github.com/avolkov/qrforge/internal/common"
	"github.com/avolkov/qrforge/internal/logging"
	"github.com/avolkov/qrforge/internal/onboarding"
	"github.com/avolkov/qrforge/internal/render"
	"github.com/google/uuid"
)

// Handler carries the dependencies shared by all endpoints.
type Handler struct {
	logger     logging.Logger
	renderFn   batch.RenderFunc
	workers    int
	batchLimit int
	defaultEC  string
	defaultPx  int
}

func NewHandler(logger logging.Logger, renderFn batch.RenderFunc, workers, batchLimit int, defaultEC string, defaultPx int) *Handler {
	return &Handler{
		logger:     logger.With("module", "api"),
		renderFn:   renderFn,
		workers:    workers,
		batchLimit: batchLimit,
		defaultEC:  defaultEC,
		defaultPx:  defaultPx,
	}
}

// EncodeOptions selects the artifact form for encode and batch requests.
type EncodeOptions struct {
	Format     string `json:"format"` // "text" (default) or "png"
	ECLevel    string `json:"ecLevel"`
	SizePx     int    `json:"sizePx"`
	DarkColor  string `json:"darkColor"`
	LightColor string `json:"lightColor"`
}

func (h *Handler) encoder(o EncodeOptions) (*batch.Encoder, error) {
	format := batch.FormatText
	switch o.Format {
	case "", "text":
	case "png":
		format = batch.FormatPNG
	default:
		return nil, fmt.Errorf("unknown format %q", o.Format)
	}

	ec := o.ECLevel
	if ec == "" {
		ec = h.defaultEC
	}
	size := o.SizePx
	if size == 0 {
		size = h.defaultPx
	}

	return &batch.Encoder{
		Format: format,
		Render: h.renderFn,
		Options: render.Options{
			SizePx:     size,
			ECLevel:    ec,
			DarkColor:  o.DarkColor,
			LightColor: o.LightColor,
		},
	}, nil
}

type encodeRequest struct {
	Type    string        `json:"type"`
	Data    string        `json:"data"`
	Label   string        `json:"label"`
	Options EncodeOptions `json:"options"`
}

type encodeResponse struct {
	Artifact string `json:"artifact"`
	Binary   bool   `json:"binary"`
}

// Encode handles POST /api/encode: one record in, one artifact out.
func (h *Handler) Encode(w http.ResponseWriter, r *http.Request) {
	var req encodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	enc, err := h.encoder(req.Options)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item := &batch.Item{
		ID:       uuid.NewString(),
		Kind:     batch.ParseKind(req.Type),
		RawInput: req.Data,
		Label:    req.Label,
	}
	artifact, binary, err := enc.Encode(item)
	if err != nil {
		h.logger.Warn(r.Context(), "encode failed", "type", req.Type, "error", err.Error())
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, encodeResponse{Artifact: artifact, Binary: binary})
}

type validateRequest struct {
	Version               uint8  `json:"version"`
	VendorID              uint32 `json:"vendorId"`
	ProductID             uint32 `json:"productId"`
	CommissioningFlow     uint8  `json:"commissioningFlow"`
	DiscoveryCapabilities uint8  `json:"discoveryCapabilities"`
	Discriminator         uint16 `json:"discriminator"`
	SetupPasscode         string `json:"setupPasscode"`
	CheckVendorRegistry   bool   `json:"checkVendorRegistry"`
}

type validateResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidatePayload handles POST /api/payload/validate. Validation failures
// are data, not errors: the response is 200 either way.
func (h *Handler) ValidatePayload(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	result := onboarding.Validate(onboarding.Payload{
		Version:               req.Version,
		VendorID:              req.VendorID,
		ProductID:             req.ProductID,
		Flow:                  onboarding.Flow(req.CommissioningFlow),
		DiscoveryCapabilities: req.DiscoveryCapabilities,
		Discriminator:         req.Discriminator,
		SetupPasscode:         req.SetupPasscode,
	}, req.CheckVendorRegistry)

	writeJSON(w, validateResponse{
		Valid:    result.Valid,
		Errors:   result.Errors,
		Warnings: result.Warnings,
	})
}

type batchRequest struct {
	Items   []batchItemRequest `json:"items"`
	Options EncodeOptions      `json:"options"`
}

type batchItemRequest struct {
	Type  string `json:"type"`
	Data  string `json:"data"`
	Label string `json:"label"`
}

// Batch handles POST /api/batch: rows in, ZIP archive out.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		http.Error(w, "batch has no items", http.StatusBadRequest)
		return
	}

	enc, err := h.encoder(req.Options)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := make([]batch.Row, len(req.Items))
	for i, it := range req.Items {
		rows[i] = batch.Row{Type: it.Type, Data: it.Data, Label: it.Label}
	}
	items := batch.ItemsFromRows(rows)

	pipeline := &batch.Pipeline{
		Workers:  h.workers,
		MaxItems: h.batchLimit,
		Encoder:  enc,
		Logger:   h.logger,
	}
	if err := pipeline.Run(r.Context(), items); err != nil {
		if errors.Is(err, batch.ErrBatchSizeExceeded) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Error(r.Context(), "batch run failed", "error", err.Error())
		http.Error(w, common.ErrInternal.Error(), http.StatusInternalServerError)
		return
	}

	archive, err := batch.BuildArchive(items)
	if err != nil {
		h.logger.Error(r.Context(), "archive build failed", "error", err.Error())
		http.Error(w, common.ErrInternal.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="qrforge_batch.zip"`)
	_, _ = w.Write(archive)
}

// Template handles GET /api/template: the fixed sample rows users start from.
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	_, _ = w.Write([]byte(batch.Template))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encoding response", http.StatusInternalServerError)
	}
}
