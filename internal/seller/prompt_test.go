package seller

import (
	"strings"
	"testing"
	"time"

	"github.com/Jamolkhon5/negotiator/internal/models"
)

func promptParams() *models.SellerParameters {
	return &models.SellerParameters{
		Price:    models.PricePoints{Opening: 52.5, Target: 42.0, Reservation: 38.5},
		Delivery: models.DeliveryPoints{OpeningDays: 60, TargetDays: 45, ReservationDays: 35},
		Volume:   models.VolumeTier{Name: "Standard", Quantity: 10000, Discount: 0},
		Tiers: []models.VolumeTier{
			{Name: "Standard", Quantity: 10000, Discount: 0},
			{Name: "Tier 1", Quantity: 20000, Discount: 0.05},
			{Name: "Tier 2", Quantity: 50000, Discount: 0.08},
		},
	}
}

func TestFormatParameters(t *testing.T) {
	text := FormatParameters(promptParams())

	for _, fragment := range []string{
		"$52.50",
		"$42.00",
		"$38.50",
		"60 days",
		"45 days",
		"35 days",
		"10000 units",
		"Tier 1 Discount: For orders > 20000 units, a 5% discount",
		"Tier 2 Discount: For orders > 50000 units, a 8% discount",
	} {
		if !strings.Contains(text, fragment) {
			t.Errorf("parameter sheet missing %q", fragment)
		}
	}

	// У стандартного уровня нет скидки, строки скидки быть не должно
	if strings.Contains(text, "Standard Discount") {
		t.Error("parameter sheet lists a discount for the standard tier")
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := buildSystemPrompt(promptParams(), models.StateNegotiating)

	for _, fragment := range []string{
		"You are Alex",
		"ChipSource Inc.",
		"$52.50",
		"Never reveal your Target or Reservation points",
		"Current negotiation state: NEGOTIATING.",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("system prompt missing %q", fragment)
		}
	}
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{3, "Good evening"},
		{5, "Good morning"},
		{8, "Good morning"},
		{11, "Good morning"},
		{12, "Good afternoon"},
		{17, "Good afternoon"},
		{18, "Good evening"},
		{23, "Good evening"},
	}

	for _, tt := range tests {
		now := time.Date(2026, 8, 31, tt.hour, 0, 0, 0, time.UTC)
		if got := Greeting(now); got != tt.want {
			t.Errorf("Greeting(hour=%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestOpeningMessage(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	msg := OpeningMessage(now)

	if !strings.HasPrefix(msg, "Good morning") {
		t.Errorf("opening message does not start with greeting: %q", msg)
	}
	for _, fragment := range []string{"Alex", "ChipSource Inc.", "CS-1000", "10,000 units"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("opening message missing %q", fragment)
		}
	}
}
