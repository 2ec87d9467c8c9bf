package upgradeprompt

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/traininggrounds/internal/telemetry/metrics"
	"github.com/2beens/traininggrounds/internal/telemetry/tracing"
	"github.com/2beens/traininggrounds/pkg"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	store          Store
	clock          clockwork.Clock
	metricsManager *metrics.Manager
}

func NewHandler(store Store, clock clockwork.Clock, metricsManager *metrics.Manager) *Handler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Handler{
		store:          store,
		clock:          clock,
		metricsManager: metricsManager,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/upgrade-prompt/{userId}", h.HandleGet).Methods("GET", "OPTIONS").Name("get-upgrade-prompt")
	router.HandleFunc("/upgrade-prompt/{userId}/shown", h.HandleShown).Methods("POST", "OPTIONS").Name("upgrade-prompt-shown")
	router.HandleFunc("/upgrade-prompt/{userId}/dismissed", h.HandleDismissed).Methods("POST", "OPTIONS").Name("upgrade-prompt-dismissed")
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.upgradePrompt.get")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	decision, err := ShouldShow(ctx, h.store, userID, h.clock.Now())
	if err != nil {
		h.writeError(w, userID, err)
		return
	}

	if h.metricsManager != nil {
		h.metricsManager.CounterUpgradePrompts.WithLabelValues(string(decision.Reason)).Inc()
	}

	respJson, err := json.Marshal(decision)
	if err != nil {
		log.Errorf("marshal upgrade prompt decision: %s", err)
		http.Error(w, "failed to get upgrade prompt", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (h *Handler) HandleShown(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.upgradePrompt.shown")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if err := MarkShown(ctx, h.store, userID, h.clock.Now()); err != nil {
		h.writeError(w, userID, err)
		return
	}
	pkg.WriteTextResponseOK(w, "marked shown")
}

func (h *Handler) HandleDismissed(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.upgradePrompt.dismissed")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if err := MarkDismissed(ctx, h.store, userID, h.clock.Now()); err != nil {
		h.writeError(w, userID, err)
		return
	}
	pkg.WriteTextResponseOK(w, "marked dismissed")
}

func (h *Handler) writeError(w http.ResponseWriter, userID string, err error) {
	if errors.Is(err, ErrEmptyUserID) {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}
	log.Errorf("upgrade prompt store for [%s]: %s", userID, err)
	http.Error(w, "upgrade prompt store unavailable", http.StatusInternalServerError)
}
