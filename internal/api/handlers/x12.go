// Package handlers provides the stateless X12 parse, view and build handlers.
package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/drfirst/go-x12/internal/api/middleware"
	"github.com/drfirst/go-x12/internal/engine"
	"github.com/drfirst/go-x12/internal/x12"
	"github.com/drfirst/go-x12/internal/x12/mapper"
)

// X12Handler serves stateless parse, analyze, view and build endpoints
type X12Handler struct {
	engine *engine.Engine
	cache  *lru.Cache[string, *x12.Document]
	logger *zap.Logger
}

// NewX12Handler creates a handler caching up to cacheSize parsed documents
func NewX12Handler(eng *engine.Engine, cacheSize int, logger *zap.Logger) (*X12Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheSize <= 0 {
		cacheSize = 512
	}
	cache, err := lru.New[string, *x12.Document](cacheSize)
	if err != nil {
		return nil, err
	}
	return &X12Handler{engine: eng, cache: cache, logger: logger}, nil
}

// Routes returns the handler routes
func (h *X12Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/parse", h.Parse)
	r.Post("/analyze", h.Analyze)
	r.Post("/view", h.View)
	r.Post("/build/{type}", h.Build)
	return r
}

// document parses the body, reusing a cached parse of identical text
func (h *X12Handler) document(r *http.Request, body []byte) *x12.Document {
	sum := sha256.Sum256(body)
	key := hex.EncodeToString(sum[:])
	if doc, ok := h.cache.Get(key); ok {
		return doc
	}
	doc := h.engine.Parse(r.Context(), string(body))
	h.cache.Add(key, doc)
	return doc
}

// ParseResponse describes a parsed document
type ParseResponse struct {
	TransactionType x12.TransactionType `json:"transactionType"`
	Description     string              `json:"description"`
	Supported       bool                `json:"supported"`
	Delimiters      DelimitersResponse  `json:"delimiters"`
	SegmentCount    int                 `json:"segmentCount"`
	Tree            []x12.Node          `json:"tree"`
	Records         []x12.Record        `json:"records"`
}

// DelimitersResponse renders delimiters as characters
type DelimitersResponse struct {
	Element   string `json:"element"`
	Component string `json:"component"`
	Segment   string `json:"segment"`
}

// Parse handles POST /x12/parse
func (h *X12Handler) Parse(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	doc := h.document(r, body)
	if doc.Len() == 0 {
		jsonError(w, "no segments found", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, ParseResponse{
		TransactionType: doc.TransactionType,
		Description:     doc.TransactionType.Description(),
		Supported:       doc.TransactionType.Supported(),
		Delimiters: DelimitersResponse{
			Element:   string(doc.Delimiters.Element),
			Component: string(doc.Delimiters.Component),
			Segment:   string(doc.Delimiters.Segment),
		},
		SegmentCount: doc.Len(),
		Tree:         doc.Tree(),
		Records:      x12.Records(doc),
	})
}

// Analyze handles POST /x12/analyze
func (h *X12Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	doc := h.document(r, body)
	writeJSON(w, http.StatusOK, h.engine.Analyze(r.Context(), doc))
}

// ViewResponse carries a mapped view model
type ViewResponse struct {
	TransactionType x12.TransactionType `json:"transactionType"`
	View            mapper.ViewModel    `json:"view"`
}

// View handles POST /x12/view
func (h *X12Handler) View(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	doc := h.document(r, body)
	vm, err := h.engine.View(r.Context(), doc)
	if err != nil {
		if errors.Is(err, mapper.ErrUnsupportedTransaction) {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("mapping failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		jsonError(w, "mapping failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ViewResponse{TransactionType: doc.TransactionType, View: vm})
}

// Build handles POST /x12/build/{type}
func (h *X12Handler) Build(w http.ResponseWriter, r *http.Request) {
	t := x12.ClassifyTransaction(chi.URLParam(r, "type"))
	if !t.Supported() {
		jsonError(w, "unsupported transaction type: "+chi.URLParam(r, "type"), http.StatusUnprocessableEntity)
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	vm, err := mapper.Decode(t, body)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	raw, err := h.engine.Build(r.Context(), vm)
	if err != nil {
		var be *mapper.BuildError
		if errors.As(err, &be) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error": be.Message,
				"field": be.Field,
			})
			return
		}
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(raw))
}
