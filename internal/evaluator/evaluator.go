package evaluator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Jamolkhon5/negotiator/internal/extract"
	"github.com/Jamolkhon5/negotiator/internal/models"
)

// ErrIncompleteAgreement возвращается при попытке оценить сделку,
// в которой согласованы не все три условия.
var ErrIncompleteAgreement = errors.New("deal not finalized")

// Веса метрик. Сумма строго равна 1.0 - это публичный контракт.
var metricWeights = map[string]float64{
	"deal_quality":            0.33,
	"trade_off_strategy":      0.28,
	"professionalism":         0.17,
	"process_management":      0.11,
	"creativity_adaptability": 0.11,
}

// Пороговые значения буквенных оценок. Границы точные: 90 - это A, 89 - B.
var gradeThresholds = []struct {
	grade     string
	threshold float64
}{
	{"A", 90},
	{"B", 80},
	{"C", 70},
	{"D", 60},
}

var offerNumbers = regexp.MustCompile(`\$?\d+(?:\.\d{1,2})?`)

// Evaluator считает пять метрик переговоров студента. Все числовые
// оценки - чистые функции от (история, параметры, условия сделки),
// без скрытой случайности.
type Evaluator struct {
	extractor       *extract.Extractor
	efficientRounds int
}

func New(efficientRounds int) *Evaluator {
	return &Evaluator{
		extractor:       extract.New(),
		efficientRounds: efficientRounds,
	}
}

// Evaluate строит итоговую оценку завершенных переговоров.
func (e *Evaluator) Evaluate(history []models.ConversationTurn, params *models.SellerParameters, agreed *models.AgreedTerms) (*models.EvaluationResult, error) {
	if agreed == nil || agreed.Price <= 0 || agreed.DeliveryDays <= 0 || agreed.Volume <= 0 {
		return nil, ErrIncompleteAgreement
	}

	userMessages := userContents(history)

	dealQuality := e.scoreDealQuality(params, agreed)
	tradeOff := e.scoreTradeOffStrategy(userMessages)
	professionalism := e.scoreProfessionalism(userMessages)
	process := e.scoreProcessManagement(userMessages)
	creativity := e.scoreCreativityAdaptability(userMessages)

	overall := round1(dealQuality*metricWeights["deal_quality"] +
		tradeOff*metricWeights["trade_off_strategy"] +
		professionalism*metricWeights["professionalism"] +
		process*metricWeights["process_management"] +
		creativity*metricWeights["creativity_adaptability"])

	return &models.EvaluationResult{
		OverallScore: overall,
		OverallGrade: Grade(overall),
		Metrics: map[string]models.MetricScore{
			"deal_quality":            metric(dealQuality, "33%"),
			"trade_off_strategy":      metric(tradeOff, "28%"),
			"professionalism":         metric(professionalism, "17%"),
			"process_management":      metric(process, "11%"),
			"creativity_adaptability": metric(creativity, "11%"),
		},
		NegotiationAnalysis: analyze(params, agreed),
		NegotiationRounds:   len(userMessages),
		Feedback:            buildFeedback(dealQuality, tradeOff, professionalism, process, creativity, overall),
	}, nil
}

// Grade переводит числовую оценку в буквенную по фиксированным порогам.
func Grade(score float64) string {
	for _, g := range gradeThresholds {
		if score >= g.threshold {
			return g.grade
		}
	}
	return "F"
}

// scoreDealQuality: линейная интерполяция финального значения между
// открывающей позицией продавца (0) и его резервной точкой (100),
// усредненная по цене и срокам. Сделка у резервной точки - максимум.
func (e *Evaluator) scoreDealQuality(params *models.SellerParameters, agreed *models.AgreedTerms) float64 {
	priceScore := interpolate(agreed.Price, params.Price.Opening, params.Price.Reservation)
	deliveryScore := interpolate(float64(agreed.DeliveryDays),
		float64(params.Delivery.OpeningDays), float64(params.Delivery.ReservationDays))
	return round1((priceScore + deliveryScore) / 2)
}

func interpolate(final, opening, reservation float64) float64 {
	if opening == reservation {
		return 0
	}
	score := (opening - final) / (opening - reservation) * 100
	return clamp(score, 0, 100)
}

// Категории условий, которые студент может увязывать в одном сообщении.
var termHints = map[string][]string{
	"price":    {"price", "$", "cost", "cheaper", "discount"},
	"delivery": {"delivery", "days", "faster", "lead time", "expedite"},
	"volume":   {"volume", "units", "quantity", "order", "bulk", "larger"},
}

// scoreTradeOffStrategy монотонно растет с числом сообщений, где студент
// увязывает два и более условия сразу (цена за объем, сроки за цену).
func (e *Evaluator) scoreTradeOffStrategy(userMessages []string) float64 {
	joint := 0
	for _, message := range userMessages {
		if e.termCategories(message) >= 2 {
			joint++
		}
	}

	switch {
	case joint == 0:
		return 30 // чистое якорение по одному условию
	case joint == 1:
		return 50
	case joint == 2:
		return 75
	default:
		return 90
	}
}

func (e *Evaluator) termCategories(message string) int {
	lower := strings.ToLower(message)
	terms := e.extractor.Extract(message)

	count := 0
	if terms.Price != nil || containsAny(lower, termHints["price"]) {
		count++
	}
	if terms.DeliveryDays != nil || containsAny(lower, termHints["delivery"]) {
		count++
	}
	if terms.Volume != nil || containsAny(lower, termHints["volume"]) {
		count++
	}
	return count
}

var redFlags = [][]string{
	{"stupid", "ridiculous", "unacceptable", "outrageous", "idiot"},
	{"demand", "must", "have to", "forced to"},
	{"lol", "omg", "ur", "gonna"},
}

var courtesyBonuses = map[string]float64{
	"please":      5,
	"thank":       5,
	"appreciate":  5,
	"understand":  3,
	"reasonable":  3,
	"flexible":    5,
	"partnership": 5,
}

// scoreProfessionalism: эвристика тона. Стартуем с 85, грубость и сленг
// снижают, вежливые обороты добавляют. Результат всегда в [0, 100].
func (e *Evaluator) scoreProfessionalism(userMessages []string) float64 {
	score := 85.0

	for _, message := range userMessages {
		lower := strings.ToLower(message)
		for _, category := range redFlags {
			for _, keyword := range category {
				if strings.Contains(lower, keyword) {
					score -= 10
				}
			}
		}
		for indicator, bonus := range courtesyBonuses {
			if strings.Contains(lower, indicator) {
				score = math.Min(100, score+bonus)
			}
		}
	}

	return clamp(round1(score), 0, 100)
}

var confirmationWords = []string{"confirm", "agree", "deal", "accept", "correct", "agreed"}

// scoreProcessManagement: организованность хода переговоров. Меньше
// раундов до соглашения - выше оценка, плюс бонусы за явные
// подтверждения и конкретные предложения в сообщениях.
func (e *Evaluator) scoreProcessManagement(userMessages []string) float64 {
	if len(userMessages) == 0 {
		return 0
	}

	score := 70.0
	rounds := len(userMessages)

	// Эффективность: укладываемся в норматив - бонус, затягиваем - штраф
	if rounds <= e.efficientRounds {
		score += 15
	} else {
		score += math.Max(-30, -5*float64(rounds-e.efficientRounds))
	}

	for _, message := range userMessages {
		if containsAny(strings.ToLower(message), confirmationWords) {
			score += 15
			break
		}
	}

	// Конкретика: большинство сообщений содержит реальные предложения
	offers := 0
	for _, message := range userMessages {
		lower := strings.ToLower(message)
		if strings.Contains(message, "$") || strings.Contains(lower, "day") {
			offers++
		}
	}
	if float64(offers) >= float64(len(userMessages))*0.7 {
		score += 10
	}

	return clamp(round1(score), 0, 100)
}

var strategyWords = []string{"alternative", "instead", "different", "volume", "terms", "creative"}

// scoreCreativityAdaptability: менял ли студент запросы от раунда к раунду
// или повторял одно и то же предложение.
func (e *Evaluator) scoreCreativityAdaptability(userMessages []string) float64 {
	if len(userMessages) < 2 {
		return 50 // слишком мало данных для вывода
	}

	var signatures []string
	for _, message := range userMessages {
		numbers := offerNumbers.FindAllString(message, -1)
		if len(numbers) == 0 {
			continue
		}
		sorted := append([]string(nil), numbers...)
		sort.Strings(sorted)
		signatures = append(signatures, strings.Join(sorted, "|"))
	}

	if len(signatures) == 0 {
		return 30 // ни одного числового предложения
	}

	unique := make(map[string]struct{}, len(signatures))
	for _, s := range signatures {
		unique[s] = struct{}{}
	}
	ratio := float64(len(unique)) / float64(len(signatures))

	var score float64
	switch {
	case ratio >= 0.8:
		score = 90
	case ratio >= 0.6:
		score = 75
	case ratio >= 0.4:
		score = 55
	default:
		score = 35
	}

	attempts := 0
	for _, message := range userMessages {
		if containsAny(strings.ToLower(message), strategyWords) {
			attempts++
		}
	}
	if attempts >= 2 {
		score = math.Min(100, score+15)
	}

	return round1(score)
}

// analyze собирает презентационную сводку: уровни продавца против
// финальных условий. Оценочной логики здесь нет.
func analyze(params *models.SellerParameters, agreed *models.AgreedTerms) models.NegotiationAnalysis {
	priceReduction := params.Price.Opening - agreed.Price
	deliveryReduction := params.Delivery.OpeningDays - agreed.DeliveryDays

	return models.NegotiationAnalysis{
		PriceAnalysis: models.PriceAnalysis{
			Opening:      params.Price.Opening,
			Target:       params.Price.Target,
			Reservation:  params.Price.Reservation,
			Final:        agreed.Price,
			Reduction:    round1(priceReduction),
			ReductionPct: fmt.Sprintf("%.1f%%", priceReduction/params.Price.Opening*100),
			BeatTarget:   agreed.Price <= params.Price.Target,
		},
		DeliveryAnalysis: models.DeliveryAnalysis{
			Opening:      params.Delivery.OpeningDays,
			Target:       params.Delivery.TargetDays,
			Reservation:  params.Delivery.ReservationDays,
			Final:        agreed.DeliveryDays,
			Reduction:    deliveryReduction,
			ReductionPct: fmt.Sprintf("%.1f%%", float64(deliveryReduction)/float64(params.Delivery.OpeningDays)*100),
			BeatTarget:   agreed.DeliveryDays <= params.Delivery.TargetDays,
		},
		Volume: agreed.Volume,
	}
}

func metric(score float64, weight string) models.MetricScore {
	return models.MetricScore{Score: score, Grade: Grade(score), Weight: weight}
}

func userContents(history []models.ConversationTurn) []string {
	var messages []string
	for _, turn := range history {
		if turn.Role == models.RoleUser {
			messages = append(messages, turn.Content)
		}
	}
	return messages
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
