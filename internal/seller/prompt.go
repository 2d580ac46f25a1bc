package seller

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jamolkhon5/negotiator/internal/models"
)

// Персона продавца и правила поведения. Параметры сделки подставляются
// отдельным блоком, история идет обычными chat-сообщениями.
const systemPromptTemplate = `You are Alex, a professional Supply Chain Manager for 'ChipSource Inc.'.
Be direct, efficient, and business-like. Keep responses brief.

---
DEAL PARAMETERS:
%s
---
NEGOTIATION BEHAVIOR RULES:
1. Be concise: Limit responses to 2-3 sentences maximum.
2. Be professional: Maintain a business-like tone.
3. Make meaningful concessions: When the buyer pushes back, reduce your offer by $5-15 on price or 3-7 days on delivery.
4. Never make trivial $1-2 reductions - concessions should feel significant to encourage continued negotiation.
5. Seek trade-offs: Propose compromises (e.g., "I can lower the price if you increase volume").
6. Respond to buyer pressure: If they express urgency or strong interest, consider moving toward your target.
7. Gradual approach: Move from opening toward reservation in 2-4 steps, not immediately.
8. Never reveal your Target or Reservation points explicitly.
9. Use plain text only, no markdown formatting.
10. When confirming a deal, state all terms clearly: "Confirmed: Price $X, Delivery Y days, Volume Z units."
---
Current negotiation state: %s.
Respond as Alex (2-3 sentences max). Make a meaningful counteroffer or concession if appropriate.`

// FormatParameters раскладывает закрытые параметры продавца в текстовый
// блок для промпта. Чистая презентация, инвариантов здесь нет.
func FormatParameters(params *models.SellerParameters) string {
	var b strings.Builder

	b.WriteString("--- Our Company: 'ChipSource Inc.' ---\n")
	b.WriteString("--- Product: CS-1000 Microprocessor ---\n\n")
	b.WriteString("--- NEGOTIATION VARIABLES & GOALS ---\n\n")

	fmt.Fprintf(&b, "1. Price Per Unit:\n")
	fmt.Fprintf(&b, "   * Opening Offer: $%.2f\n", params.Price.Opening)
	fmt.Fprintf(&b, "   * Our Target: $%.2f (This is a great outcome for us)\n", params.Price.Target)
	fmt.Fprintf(&b, "   * Our Reservation Point: $%.2f (Our absolute walk-away price. Do not go below this.)\n\n", params.Price.Reservation)

	fmt.Fprintf(&b, "2. Delivery Date (days from order):\n")
	fmt.Fprintf(&b, "   * Opening Offer: %d days (This is comfortable for us)\n", params.Delivery.OpeningDays)
	fmt.Fprintf(&b, "   * Our Target: %d days\n", params.Delivery.TargetDays)
	fmt.Fprintf(&b, "   * Our Reservation Point: %d days (This is an expedited rush order, our absolute fastest)\n\n", params.Delivery.ReservationDays)

	fmt.Fprintf(&b, "3. Volume & Discount Tiers:\n")
	fmt.Fprintf(&b, "   * Standard orders are for %d units. The prices above apply.\n", params.Volume.Quantity)
	for _, tier := range params.Tiers {
		if tier.Discount == 0 {
			continue
		}
		fmt.Fprintf(&b, "   * %s Discount: For orders > %d units, a %.0f%% discount on the final per-unit price is possible.\n",
			tier.Name, tier.Quantity, tier.Discount*100)
	}

	b.WriteString(`
--- NEGOTIATION STRATEGY ---
* Start with your opening offer, but be prepared to make meaningful concessions.
* When the buyer pushes back or makes a counteroffer, reduce your price by $5-15 or delivery by 3-7 days per round.
* Make gradual concessions - don't jump straight to your reservation point.
* Suggest trade-offs: offer better price for higher volume, or faster delivery for higher price.
* If the buyer shows strong interest or urgency, you can move closer to your target.
* Never go below your reservation point, but approach it gradually if needed.
* Be responsive to counteroffers - match concession energy (if they give, you give).

--- YOUR GOAL ---
Your primary objective is to reach a deal that is as close to your TARGETS as possible. A deal is better than no deal, but not if it breaches any of your RESERVATION points.`)

	return b.String()
}

func buildSystemPrompt(params *models.SellerParameters, state models.NegotiationState) string {
	return fmt.Sprintf(systemPromptTemplate, FormatParameters(params), state)
}

// Greeting возвращает приветствие по текущему времени суток (UTC).
func Greeting(now time.Time) string {
	hour := now.UTC().Hour()
	switch {
	case hour >= 5 && hour < 12:
		return "Good morning"
	case hour >= 12 && hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// OpeningMessage - первая реплика продавца при создании сессии.
func OpeningMessage(now time.Time) string {
	return Greeting(now) + ". Thank you for your interest in the CS-1000 microprocessor. " +
		"I'm Alex from ChipSource Inc. I have our standard terms here, but I'm confident we can " +
		"find an arrangement that works well for both our companies. Our standard offering is " +
		"10,000 units at our current market price with our normal delivery schedule. " +
		"What specific requirements does your company have for this order?"
}

// FallbackReply подставляется вместо ответа продавца, когда внешний
// генератор недоступен: сессия должна пережить сбой, а не упасть.
const FallbackReply = "I'm sorry, I seem to be having trouble processing that request. Could you try again?"
