package models

import "time"

// Роли участников переговоров в истории диалога.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Состояния переговорной сессии.
type NegotiationState string

const (
	StateSetup       NegotiationState = "SETUP"
	StateNegotiating NegotiationState = "NEGOTIATING"
	StateClosing     NegotiationState = "CLOSING"
	StateEvaluated   NegotiationState = "EVALUATED"
)

// ConversationTurn - одна реплика диалога. После добавления в историю
// не изменяется, порядок реплик значим.
type ConversationTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// PricePoints - ценовые уровни продавца. Инвариант:
// Opening > Target > Reservation.
type PricePoints struct {
	Opening     float64 `json:"opening"`
	Target      float64 `json:"target"`
	Reservation float64 `json:"reservation"`
}

// DeliveryPoints - уровни сроков поставки в днях. Инвариант:
// OpeningDays > TargetDays > ReservationDays (от медленного к быстрому).
type DeliveryPoints struct {
	OpeningDays     int `json:"opening_days"`
	TargetDays      int `json:"target_days"`
	ReservationDays int `json:"reservation_days"`
}

// VolumeTier - объемный уровень заказа со скидкой от цены за единицу.
type VolumeTier struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Discount float64 `json:"discount"`
}

// SellerParameters - закрытые параметры продавца. Генерируются один раз
// при создании сессии и не изменяются до её конца. Клиенту эти числа
// не отдаются.
type SellerParameters struct {
	Price    PricePoints    `json:"price"`
	Delivery DeliveryPoints `json:"delivery"`
	Volume   VolumeTier     `json:"volume"`
	Tiers    []VolumeTier   `json:"tiers"`
}

// ExtractedTerms - условия, извлеченные из одного сообщения.
// nil означает, что условие в тексте не упомянуто.
type ExtractedTerms struct {
	Price        *float64 `json:"price,omitempty"`
	DeliveryDays *int     `json:"delivery_days,omitempty"`
	Volume       *int     `json:"volume,omitempty"`
}

// Count возвращает количество заполненных условий.
func (t ExtractedTerms) Count() int {
	n := 0
	if t.Price != nil {
		n++
	}
	if t.DeliveryDays != nil {
		n++
	}
	if t.Volume != nil {
		n++
	}
	return n
}

// Merge переносит непустые условия из other поверх текущих.
// Более позднее явное значение всегда побеждает.
func (t *ExtractedTerms) Merge(other ExtractedTerms) {
	if other.Price != nil {
		t.Price = other.Price
	}
	if other.DeliveryDays != nil {
		t.DeliveryDays = other.DeliveryDays
	}
	if other.Volume != nil {
		t.Volume = other.Volume
	}
}

// AgreedTerms - финальные условия сделки, зафиксированные в момент
// подтверждения соглашения. После фиксации не изменяются.
type AgreedTerms struct {
	Price        float64 `json:"price"`
	DeliveryDays int     `json:"delivery_days"`
	Volume       int     `json:"volume"`
}

// MetricScore - оценка по одной метрике.
type MetricScore struct {
	Score  float64 `json:"score"`
	Grade  string  `json:"grade"`
	Weight string  `json:"weight"`
}

// PriceAnalysis - разбор ценового результата относительно уровней продавца.
type PriceAnalysis struct {
	Opening      float64 `json:"opening"`
	Target       float64 `json:"target"`
	Reservation  float64 `json:"reservation"`
	Final        float64 `json:"final"`
	Reduction    float64 `json:"reduction"`
	ReductionPct string  `json:"reduction_pct"`
	BeatTarget   bool    `json:"beat_target"`
}

// DeliveryAnalysis - разбор результата по срокам поставки.
type DeliveryAnalysis struct {
	Opening      int    `json:"opening"`
	Target       int    `json:"target"`
	Reservation  int    `json:"reservation"`
	Final        int    `json:"final"`
	Reduction    int    `json:"reduction"`
	ReductionPct string `json:"reduction_pct"`
	BeatTarget   bool   `json:"beat_target"`
}

// NegotiationAnalysis - презентационная сводка итогов без оценочной логики.
type NegotiationAnalysis struct {
	PriceAnalysis    PriceAnalysis    `json:"price_analysis"`
	DeliveryAnalysis DeliveryAnalysis `json:"delivery_analysis"`
	Volume           int              `json:"volume"`
}

// EvaluationResult - итоговая оценка переговоров. Создается один раз
// при финализации сессии и не пересчитывается.
type EvaluationResult struct {
	OverallScore        float64                `json:"overall_score"`
	OverallGrade        string                 `json:"overall_grade"`
	Metrics             map[string]MetricScore `json:"metrics"`
	NegotiationAnalysis NegotiationAnalysis    `json:"negotiation_analysis"`
	NegotiationRounds   int                    `json:"negotiation_rounds"`
	Feedback            string                 `json:"feedback"`
}
