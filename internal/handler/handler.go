package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Jamolkhon5/negotiator/internal/agreement"
	"github.com/Jamolkhon5/negotiator/internal/dealgen"
	"github.com/Jamolkhon5/negotiator/internal/evaluator"
	"github.com/Jamolkhon5/negotiator/internal/extract"
	"github.com/Jamolkhon5/negotiator/internal/models"
	"github.com/Jamolkhon5/negotiator/internal/seller"
	"github.com/Jamolkhon5/negotiator/internal/session"
)

// Легенда сценария для клиента. Закрытые числа продавца сюда не попадают.
const scenarioBrief = "You are buying CS-1000 microprocessors from ChipSource Inc. " +
	"Negotiate the price per unit, the delivery time, and the order volume with Alex, " +
	"their supply chain manager. The standard order is 10,000 units; larger volumes may unlock discounts."

type Handler struct {
	store     session.Store
	generator seller.Generator
	dealgen   *dealgen.Generator
	extractor *extract.Extractor
	validator *agreement.Validator
	evaluator *evaluator.Evaluator
}

func NewHandler(store session.Store, generator seller.Generator, dg *dealgen.Generator, ev *evaluator.Evaluator) *Handler {
	extractor := extract.New()
	return &Handler{
		store:     store,
		generator: generator,
		dealgen:   dg,
		extractor: extractor,
		validator: agreement.NewValidator(extractor),
		evaluator: ev,
	}
}

// CreateSession создает новую переговорную сессию. Со student_id
// параметры воспроизводимы, без него - случайны.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.NewSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params, err := h.dealgen.Generate(req.StudentID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	now := time.Now()
	greeting := seller.OpeningMessage(now)

	s := &session.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Seed:      req.StudentID,
		Params:    params,
		State:     models.StateNegotiating,
	}
	s.AppendTurn(models.RoleAssistant, greeting, now)

	if err := h.store.Put(s); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("Created session %s (seed=%q)", s.ID, req.StudentID)

	writeJSON(w, models.NewSessionResponse{
		SessionID: s.ID,
		Scenario:  scenarioBrief,
		Greeting:  greeting,
		State:     s.State,
	})
}

// Chat обрабатывает очередное сообщение студента: извлечение условий,
// проверка соглашения и, если сделка еще не закрыта, реплика продавца.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "No message provided", http.StatusBadRequest)
		return
	}

	unlock := h.store.Lock(req.SessionID)
	defer unlock()

	s, err := h.store.Get(req.SessionID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if s.State == models.StateEvaluated {
		http.Error(w, "Negotiation already evaluated", http.StatusBadRequest)
		return
	}

	priorHistory := s.History
	s.AppendTurn(models.RoleUser, req.Message, time.Now())

	result := h.validator.Validate(priorHistory, req.Message)

	var reply string
	var missing []string

	if result.IsValid {
		// Сделка закрыта: фиксируем условия, продавец подтверждает их явно
		s.Agreed = result.AgreedTerms
		s.State = models.StateClosing
		reply = fmt.Sprintf("Confirmed: Price $%.2f, Delivery %d days, Volume %d units. A pleasure doing business with you.",
			result.AgreedTerms.Price, result.AgreedTerms.DeliveryDays, result.AgreedTerms.Volume)
	} else {
		if agreement.Triggered(req.Message) {
			missing = result.MissingTerms
		}
		reply, err = h.generator.Reply(r.Context(), s.Params, priorHistory, s.State, req.Message)
		if err != nil {
			// Недоступность генератора не роняет сессию
			log.Printf("seller generator failed for session %s: %v", s.ID, err)
			reply = seller.FallbackReply
		}
		// Обновляем накопленное последнее предложение продавца
		s.LastOffer.Merge(h.extractor.Extract(reply))
	}

	s.AppendTurn(models.RoleAssistant, reply, time.Now())

	if err := h.store.Put(s); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, models.ChatResponse{
		Reply:             reply,
		AgreementDetected: result.IsValid,
		AgreedTerms:       s.Agreed,
		MissingTerms:      missing,
		State:             s.State,
	})
}

// GetSession отдает публичное представление сессии без закрытых параметров.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, models.SessionView{
		SessionID: s.ID,
		CreatedAt: s.CreatedAt,
		State:     s.State,
		Rounds:    s.Rounds(),
		History:   s.History,
	})
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Session deleted"})
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, models.SessionListResponse{Count: len(ids), Sessions: ids})
}

// ContinueNegotiation - явный возврат CLOSING -> NEGOTIATING без оценки.
func (h *Handler) ContinueNegotiation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	unlock := h.store.Lock(id)
	defer unlock()

	s, err := h.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if s.State != models.StateClosing {
		http.Error(w, "Nothing to continue: session is not closing", http.StatusBadRequest)
		return
	}

	s.State = models.StateNegotiating
	s.Agreed = nil

	if err := h.store.Put(s); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]models.NegotiationState{"state": s.State})
}

// Evaluate считает итоговую оценку. Результат неизменяем: повторный
// запрос возвращает закэшированную оценку, а не пересчитывает ее.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	unlock := h.store.Lock(id)
	defer unlock()

	s, err := h.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if s.Evaluation != nil {
		writeJSON(w, s.Evaluation)
		return
	}

	result, err := h.evaluator.Evaluate(s.History, s.Params, s.Agreed)
	if err != nil {
		if errors.Is(err, evaluator.ErrIncompleteAgreement) {
			http.Error(w, "Deal not finalized", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.Evaluation = result
	s.State = models.StateEvaluated

	if err := h.store.Put(s); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("Evaluated session %s: %.1f (%s)", s.ID, result.OverallScore, result.OverallGrade)
	writeJSON(w, result)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok", "service": "negotiation-simulator"})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
