package evaluator

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/Jamolkhon5/negotiator/internal/models"
)

func testParams() *models.SellerParameters {
	return &models.SellerParameters{
		Price:    models.PricePoints{Opening: 52.5, Target: 42.0, Reservation: 38.5},
		Delivery: models.DeliveryPoints{OpeningDays: 60, TargetDays: 45, ReservationDays: 35},
		Volume:   models.VolumeTier{Name: "Standard", Quantity: 10000, Discount: 0},
	}
}

func testHistory() []models.ConversationTurn {
	turns := []struct {
		role, content string
	}{
		{models.RoleAssistant, "Good afternoon! Our standard terms: $52.50 per unit, delivery in 60 days for 10,000 units."},
		{models.RoleUser, "Thank you for the offer. Could you do $45 per unit if we commit to 20,000 units?"},
		{models.RoleAssistant, "For 20,000 units I can offer $48 per unit, delivery in 55 days."},
		{models.RoleUser, "If you bring delivery down to 45 days, we can agree to $46."},
		{models.RoleAssistant, "Let's settle at $46 per unit with 45 days delivery for 20,000 units."},
		{models.RoleUser, "I agree: $46 per unit, 45 days, 20,000 units."},
	}

	history := make([]models.ConversationTurn, 0, len(turns))
	for _, turn := range turns {
		history = append(history, models.ConversationTurn{Role: turn.role, Content: turn.content})
	}
	return history
}

// Сумма весов метрик - публичный контракт оценки.
func TestMetricWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, weight := range metricWeights {
		sum += weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("metric weights sum to %v, want 1.0", sum)
	}
	if len(metricWeights) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(metricWeights))
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "A"},
		{90, "A"},
		{89.9, "B"},
		{80, "B"},
		{79.9, "C"},
		{70, "C"},
		{69.9, "D"},
		{60, "D"},
		{59.9, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		if got := Grade(tt.score); got != tt.want {
			t.Errorf("Grade(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestEvaluateIncompleteAgreement(t *testing.T) {
	e := New(6)

	tests := []struct {
		name   string
		agreed *models.AgreedTerms
	}{
		{"nil terms", nil},
		{"zero price", &models.AgreedTerms{Price: 0, DeliveryDays: 45, Volume: 10000}},
		{"zero delivery", &models.AgreedTerms{Price: 46, DeliveryDays: 0, Volume: 10000}},
		{"zero volume", &models.AgreedTerms{Price: 46, DeliveryDays: 45, Volume: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Evaluate(testHistory(), testParams(), tt.agreed)
			if !errors.Is(err, ErrIncompleteAgreement) {
				t.Errorf("err = %v, want ErrIncompleteAgreement", err)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	e := New(6)
	agreed := &models.AgreedTerms{Price: 46, DeliveryDays: 45, Volume: 20000}

	result, err := e.Evaluate(testHistory(), testParams(), agreed)
	if err != nil {
		t.Fatal(err)
	}

	if result.OverallScore != 79.0 {
		t.Errorf("OverallScore = %v, want 79.0", result.OverallScore)
	}
	if result.OverallGrade != "C" {
		t.Errorf("OverallGrade = %q, want C", result.OverallGrade)
	}
	if result.NegotiationRounds != 3 {
		t.Errorf("NegotiationRounds = %d, want 3", result.NegotiationRounds)
	}
	if len(result.Metrics) != 5 {
		t.Fatalf("got %d metrics, want 5", len(result.Metrics))
	}

	// Цена: (52.5-46)/(52.5-38.5) = 46.4, сроки: (60-45)/(60-35) = 60.0
	if got := result.Metrics["deal_quality"].Score; got != 53.2 {
		t.Errorf("deal_quality = %v, want 53.2", got)
	}
	// Все три сообщения студента увязывают по два и более условия
	if got := result.Metrics["trade_off_strategy"].Score; got != 90 {
		t.Errorf("trade_off_strategy = %v, want 90", got)
	}

	if result.Feedback == "" {
		t.Error("empty feedback")
	}

	analysis := result.NegotiationAnalysis
	if analysis.PriceAnalysis.Final != 46 || analysis.PriceAnalysis.BeatTarget {
		t.Errorf("unexpected price analysis: %+v", analysis.PriceAnalysis)
	}
	if analysis.DeliveryAnalysis.Final != 45 || !analysis.DeliveryAnalysis.BeatTarget {
		t.Errorf("unexpected delivery analysis: %+v", analysis.DeliveryAnalysis)
	}
	if analysis.Volume != 20000 {
		t.Errorf("analysis volume = %d, want 20000", analysis.Volume)
	}
}

// Повторная оценка той же сессии обязана давать байт-в-байт тот же результат.
func TestEvaluateDeterministic(t *testing.T) {
	e := New(6)
	agreed := &models.AgreedTerms{Price: 46, DeliveryDays: 45, Volume: 20000}

	first, err := e.Evaluate(testHistory(), testParams(), agreed)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Evaluate(testHistory(), testParams(), agreed)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("evaluation is not deterministic:\n%+v\n%+v", first, second)
	}
}

// Сделка у резервной точки продавца - максимальное качество сделки.
func TestDealQualityAtReservation(t *testing.T) {
	e := New(6)
	params := testParams()

	agreed := &models.AgreedTerms{
		Price:        params.Price.Reservation,
		DeliveryDays: params.Delivery.ReservationDays,
		Volume:       10000,
	}
	if got := e.scoreDealQuality(params, agreed); got != 100 {
		t.Errorf("deal quality at reservation = %v, want 100", got)
	}

	// Сделка на открывающей позиции - ноль
	atOpening := &models.AgreedTerms{
		Price:        params.Price.Opening,
		DeliveryDays: params.Delivery.OpeningDays,
		Volume:       10000,
	}
	if got := e.scoreDealQuality(params, atOpening); got != 0 {
		t.Errorf("deal quality at opening = %v, want 0", got)
	}

	// Уступка ниже резервной точки не дает больше 100
	below := &models.AgreedTerms{Price: 10, DeliveryDays: 5, Volume: 10000}
	if got := e.scoreDealQuality(params, below); got != 100 {
		t.Errorf("deal quality below reservation = %v, want 100", got)
	}
}

func TestProfessionalismToneSensitivity(t *testing.T) {
	e := New(6)

	polite := e.scoreProfessionalism([]string{
		"Thank you, I appreciate the offer.",
		"Please consider a flexible arrangement.",
	})
	rude := e.scoreProfessionalism([]string{
		"This is ridiculous, I demand a better price.",
		"Your terms are unacceptable.",
	})

	if polite <= rude {
		t.Errorf("polite score %v not above rude score %v", polite, rude)
	}
	for _, score := range []float64{polite, rude} {
		if score < 0 || score > 100 {
			t.Errorf("score %v out of [0, 100]", score)
		}
	}
}

func TestProcessManagementPenalizesLongNegotiations(t *testing.T) {
	e := New(6)

	short := []string{"How about $45?", "I can offer $44 then.", "Deal at $44."}
	long := append([]string(nil), short...)
	for i := 0; i < 10; i++ {
		long = append(long, "Still thinking about the price.")
	}

	if s, l := e.scoreProcessManagement(short), e.scoreProcessManagement(long); s <= l {
		t.Errorf("short negotiation %v not above dragged-out one %v", s, l)
	}
	if got := e.scoreProcessManagement(nil); got != 0 {
		t.Errorf("score with no messages = %v, want 0", got)
	}
}

func TestCreativityRewardsVariedOffers(t *testing.T) {
	e := New(6)

	varied := e.scoreCreativityAdaptability([]string{
		"How about $45 for 20000 units?",
		"What if we take $46 but 40 days?",
		"Final: $47 with 35 days.",
	})
	repetitive := e.scoreCreativityAdaptability([]string{
		"$45 or nothing.",
		"$45 or nothing.",
		"$45 or nothing.",
	})

	if varied <= repetitive {
		t.Errorf("varied offers %v not above repetitive ones %v", varied, repetitive)
	}
	if got := e.scoreCreativityAdaptability([]string{"hello"}); got != 50 {
		t.Errorf("single message score = %v, want 50", got)
	}
}
