package agreement

import (
	"strings"

	"github.com/Jamolkhon5/negotiator/internal/extract"
	"github.com/Jamolkhon5/negotiator/internal/models"
)

// Имена условий сделки, как они отдаются клиенту в missing_terms.
const (
	TermPrice    = "price"
	TermDelivery = "delivery"
	TermVolume   = "volume"
)

// Ограниченный набор фраз, сигнализирующих о согласии студента.
var agreementKeywords = []string{
	"agree", "agreed", "deal", "accept", "i accept",
	"confirm", "confirmed", "sounds good", "works for me",
	"that works", "let's do it", "perfect",
}

// Result - решение валидатора по одному сообщению. Чисто синхронное,
// без повторных попыток: при невалидном результате переговоры просто
// продолжаются.
type Result struct {
	IsValid      bool
	MissingTerms []string
	AgreedTerms  *models.AgreedTerms
}

type Validator struct {
	extractor *extract.Extractor
}

func NewValidator(extractor *extract.Extractor) *Validator {
	return &Validator{extractor: extractor}
}

// Triggered сообщает, содержит ли сообщение студента сигнал согласия.
func Triggered(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range agreementKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Validate решает, зафиксировано ли соглашение по всем трем условиям.
// Условия берутся из последнего сообщения студента; недостающие
// добираются из последнего упоминания продавцом - считаем, что студент
// принимает последнее озвученное предложение. Более позднее явное
// значение всегда побеждает, никакой другой сверки нет.
func (v *Validator) Validate(history []models.ConversationTurn, latestUserMessage string) Result {
	if !Triggered(latestUserMessage) {
		return Result{
			IsValid:      false,
			MissingTerms: []string{TermPrice, TermDelivery, TermVolume},
		}
	}

	terms := v.extractor.Extract(latestUserMessage)

	// Добор недостающих условий из реплик продавца, от свежих к старым
	for i := len(history) - 1; i >= 0 && terms.Count() < 3; i-- {
		turn := history[i]
		if turn.Role != models.RoleAssistant {
			continue
		}
		fromSeller := v.extractor.Extract(turn.Content)
		if terms.Price == nil && fromSeller.Price != nil {
			terms.Price = fromSeller.Price
		}
		if terms.DeliveryDays == nil && fromSeller.DeliveryDays != nil {
			terms.DeliveryDays = fromSeller.DeliveryDays
		}
		if terms.Volume == nil && fromSeller.Volume != nil {
			terms.Volume = fromSeller.Volume
		}
	}

	missing := missingTerms(terms)
	if len(missing) > 0 {
		return Result{IsValid: false, MissingTerms: missing}
	}

	return Result{
		IsValid: true,
		AgreedTerms: &models.AgreedTerms{
			Price:        *terms.Price,
			DeliveryDays: *terms.DeliveryDays,
			Volume:       *terms.Volume,
		},
	}
}

func missingTerms(terms models.ExtractedTerms) []string {
	var missing []string
	if terms.Price == nil {
		missing = append(missing, TermPrice)
	}
	if terms.DeliveryDays == nil {
		missing = append(missing, TermDelivery)
	}
	if terms.Volume == nil {
		missing = append(missing, TermVolume)
	}
	return missing
}
