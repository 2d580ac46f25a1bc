package evaluator

import (
	"fmt"
	"strings"
)

// buildFeedback собирает текстовый разбор из посчитанных оценок.
// Шаблонный и детерминированный: одинаковые оценки - одинаковый текст.
func buildFeedback(dealQuality, strategy, professionalism, process, creativity, overall float64) string {
	var parts []string

	switch {
	case overall >= 90:
		parts = append(parts, fmt.Sprintf("Outstanding negotiation! Score: %.1f/100", overall))
	case overall >= 80:
		parts = append(parts, fmt.Sprintf("Strong performance. Score: %.1f/100", overall))
	case overall >= 70:
		parts = append(parts, fmt.Sprintf("Solid effort. Score: %.1f/100", overall))
	case overall >= 60:
		parts = append(parts, fmt.Sprintf("Room for improvement. Score: %.1f/100", overall))
	default:
		parts = append(parts, fmt.Sprintf("Needs significant improvement. Score: %.1f/100", overall))
	}

	parts = append(parts, "\nDeal Quality:")
	switch {
	case dealQuality >= 90:
		parts = append(parts, "- Excellent! You achieved pricing at or near the seller's walk-away range.")
	case dealQuality >= 80:
		parts = append(parts, "- Good negotiation! You secured meaningful price and delivery reductions.")
	case dealQuality >= 70:
		parts = append(parts, "- You reached agreement with moderate savings on the initial offers.")
	case dealQuality >= 60:
		parts = append(parts, "- Limited concessions achieved. Consider more assertive negotiation next time.")
	default:
		parts = append(parts, "- The final deal was not significantly better than the opening offers.")
	}

	parts = append(parts, "\nTrade-off Strategy:")
	switch {
	case strategy >= 90:
		parts = append(parts, "- Excellent! You consistently identified and proposed win-win trade-offs.")
	case strategy >= 75:
		parts = append(parts, "- Good! You recognized trade-off opportunities between price, delivery, and volume.")
	case strategy >= 50:
		parts = append(parts, "- You made some trade-off attempts, but could explore more creative combinations.")
	default:
		parts = append(parts, "- Consider using trade-offs: 'I can accept X if you offer Y'.")
	}

	parts = append(parts, "\nProfessionalism:")
	switch {
	case professionalism >= 90:
		parts = append(parts, "- Outstanding tone and communication. Respectful and persuasive throughout.")
	case professionalism >= 80:
		parts = append(parts, "- Professional communication with clear reasoning behind your offers.")
	case professionalism >= 70:
		parts = append(parts, "- Generally professional with occasional informal language.")
	default:
		parts = append(parts, "- Focus on maintaining a professional tone. Avoid aggressive or dismissive language.")
	}

	parts = append(parts, "\nProcess Management:")
	switch {
	case process >= 90:
		parts = append(parts, "- Excellent organization! Clear offers, explicit confirmations, strong flow.")
	case process >= 80:
		parts = append(parts, "- Good structure. Your offers were clear and the progression was logical.")
	case process >= 70:
		parts = append(parts, "- Adequate process. Consider summarizing agreed points periodically.")
	default:
		parts = append(parts, "- Work on clarity: make specific offers and confirm mutual understanding.")
	}

	parts = append(parts, "\nCreativity & Adaptability:")
	switch {
	case creativity >= 90:
		parts = append(parts, "- Excellent! You adapted strategy based on responses and tried multiple approaches.")
	case creativity >= 75:
		parts = append(parts, "- Good adaptability. You adjusted offers based on feedback and explored alternatives.")
	case creativity >= 55:
		parts = append(parts, "- Some adaptation shown, but offers were somewhat repetitive overall.")
	default:
		parts = append(parts, "- Next time, try varying your proposals more based on counteroffers.")
	}

	parts = append(parts, "\nKey Recommendation:")
	parts = append(parts, keyRecommendation(dealQuality, strategy, professionalism, process, creativity))

	return strings.Join(parts, "\n")
}

// keyRecommendation указывает на самую слабую метрику студента.
func keyRecommendation(dealQuality, strategy, professionalism, process, creativity float64) string {
	// Порядок фиксированный, чтобы при равенстве оценок текст был стабильным
	candidates := []struct {
		name  string
		score float64
	}{
		{"deal_quality", dealQuality},
		{"strategy", strategy},
		{"professionalism", professionalism},
		{"process", process},
		{"creativity", creativity},
	}

	weakest := candidates[0].name
	lowest := candidates[0].score
	for _, c := range candidates[1:] {
		if c.score < lowest {
			weakest = c.name
			lowest = c.score
		}
	}

	switch weakest {
	case "deal_quality":
		return "- Focus on achieving better price and delivery concessions. Plan your walk-away point before negotiating."
	case "strategy":
		return "- Prepare a strategy sheet before negotiating: identify trade-offs (price for volume, delivery for price)."
	case "professionalism":
		return "- Practice maintaining a professional tone even when frustrated. Justify your positions calmly."
	case "process":
		return "- Use a structured template: 'So we have: price X, delivery Y, volume Z. Agreed?' Build mutual understanding."
	default:
		return "- Be flexible! When an offer is rejected, immediately propose a different combination rather than repeating."
	}
}
