package history

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/traininggrounds/internal/telemetry/tracing"
	"github.com/2beens/traininggrounds/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=history_test

type eventsRepo interface {
	List(ctx context.Context, params ListParams) ([]Event, error)
}

const maxPageSize = 100

type ListResponse struct {
	Events []Event `json:"events"`
	Page   int     `json:"page"`
	Size   int     `json:"size"`
}

type Handler struct {
	repo eventsRepo
}

func NewHandler(repo eventsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/briefing/history/{userId}/page/{page}/size/{size}", h.HandleList).
		Methods("GET", "OPTIONS").
		Name("list-briefing-history")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.briefing.history.list")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}
	page, err := strconv.Atoi(vars["page"])
	if err != nil || page < 0 {
		http.Error(w, "error, invalid page", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil || size <= 0 || size > maxPageSize {
		http.Error(w, "error, invalid size", http.StatusBadRequest)
		return
	}

	params := ListParams{
		UserID: userID,
		Page:   page,
		Size:   size,
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		params.Kind = &kind
	}
	if from := r.URL.Query().Get("from"); from != "" {
		fromTime, ok := pkg.ParseDate(from)
		if !ok {
			http.Error(w, "error, invalid from", http.StatusBadRequest)
			return
		}
		params.From = &fromTime
	}
	if to := r.URL.Query().Get("to"); to != "" {
		toTime, ok := pkg.ParseDate(to)
		if !ok {
			http.Error(w, "error, invalid to", http.StatusBadRequest)
			return
		}
		params.To = &toTime
	}
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		http.Error(w, "error, to before from", http.StatusBadRequest)
		return
	}

	events, err := h.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list briefing history for [%s]: %s", userID, err)
		http.Error(w, "failed to list briefing history", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListResponse{
		Events: events,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		log.Errorf("marshal briefing history: %s", err)
		http.Error(w, "failed to list briefing history", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
