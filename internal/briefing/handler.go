package briefing

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/traininggrounds/internal/telemetry/tracing"
	"github.com/2beens/traininggrounds/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxPreviewBodyBytes = 1 << 20

// PreviewRequest carries caller supplied data to compose a card without
// touching the coach backend or the history.
type PreviewRequest struct {
	RecentReports  LenientList[WeeklyReport]  `json:"recentReports"`
	RecentWorkouts LenientList[WorkoutRecord] `json:"recentWorkouts"`
	Now            string                     `json:"now,omitempty"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/briefing/preview", h.HandlePreview).Methods("POST", "OPTIONS").Name("preview-briefing")
	// otherwise GET /briefing/preview falls through to get-briefing with user id "preview"
	router.HandleFunc("/briefing/preview", previewMethodNotAllowed).Name("preview-briefing-method")
	router.HandleFunc("/briefing/{userId}", h.HandleGet).Methods("GET", "OPTIONS").Name("get-briefing")
}

func previewMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", "POST, OPTIONS")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.briefing.get")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	card, err := h.service.Briefing(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrEmptyUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		log.Errorf("get briefing for [%s]: %s", userID, err)
		http.Error(w, "failed to get briefing data", http.StatusBadGateway)
		return
	}

	h.writeCard(w, card)
}

func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.briefing.preview")
	defer span.End()

	var req PreviewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPreviewBodyBytes)).Decode(&req); err != nil {
		log.Debugf("preview briefing, bad request body: %s", err)
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}

	var now time.Time
	if req.Now == "" {
		now = h.service.Now()
	} else {
		parsed, ok := pkg.ParseDate(req.Now)
		if !ok {
			http.Error(w, "error, invalid now", http.StatusBadRequest)
			return
		}
		now = parsed
	}

	card := Compose(req.RecentReports, req.RecentWorkouts, now)
	h.writeCard(w, &card)
}

func (h *Handler) writeCard(w http.ResponseWriter, card *Card) {
	respJson, err := json.Marshal(card)
	if err != nil {
		log.Errorf("marshal briefing card: %s", err)
		http.Error(w, "failed to marshal briefing card", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
