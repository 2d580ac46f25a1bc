package dealgen

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/Jamolkhon5/negotiator/internal/config"
	"github.com/Jamolkhon5/negotiator/internal/models"
)

// Минимальные разрывы между уровнями, чтобы каждая уступка продавца
// оставалась ощутимой для студента.
const (
	minPriceDiff     = 5.0
	minDeliveryDiff  = 3
	reservationFloor = 0.50 // резервная цена не опускается ниже 50% открывающей
)

// Фиксированная таблица объемных уровней. Выбор уровня не рандомизируется:
// сессия всегда начинается со стандартного объема, скидочные уровни
// студент добирает в торге.
var volumeTiers = []models.VolumeTier{
	{Name: "Standard", Quantity: 10000, Discount: 0},
	{Name: "Tier 1", Quantity: 20000, Discount: 0.05},
	{Name: "Tier 2", Quantity: 50000, Discount: 0.08},
}

type Generator struct {
	cfg *config.Config
}

func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg}
}

// Generate строит закрытые параметры продавца для новой сессии.
// Непустой seed дает воспроизводимый набор (один студент - один сценарий),
// пустой seed - случайный набор.
func (g *Generator) Generate(seed string) (*models.SellerParameters, error) {
	var rng *rand.Rand
	if seed != "" {
		rng = rand.New(rand.NewSource(hashSeed(seed)))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	price := g.generatePrice(rng)
	delivery := g.generateDelivery(rng)

	params := &models.SellerParameters{
		Price:    price,
		Delivery: delivery,
		Volume:   volumeTiers[0],
		Tiers:    volumeTiers,
	}

	if err := validate(params); err != nil {
		return nil, err
	}
	return params, nil
}

func (g *Generator) generatePrice(rng *rand.Rand) models.PricePoints {
	opening := round2(uniform(rng, g.cfg.PriceOpeningMin, g.cfg.PriceOpeningMax))

	// Снижение к цели 15-25%, к резервной точке еще 10-15%: монотонность
	// получается конструктивно, без пост-обработки в нормальном случае
	reduction1 := uniform(rng, g.cfg.TargetReductionMin, g.cfg.TargetReductionMax)
	reduction2 := uniform(rng, g.cfg.ReserveReductionMin, g.cfg.ReserveReductionMax)

	target := round2(opening * (1 - reduction1))
	reservation := round2(target * (1 - reduction2))

	// Гарантируем минимальный разрыв между уровнями
	if target >= opening-minPriceDiff {
		target = round2(opening - minPriceDiff)
	}
	if reservation >= target-minPriceDiff {
		reservation = round2(target - minPriceDiff)
	}

	// Резервная цена не опускается ниже пола - защита от нереалистичных сделок
	if floor := round2(opening * reservationFloor); reservation < floor {
		reservation = floor
	}

	return models.PricePoints{Opening: opening, Target: target, Reservation: reservation}
}

func (g *Generator) generateDelivery(rng *rand.Rand) models.DeliveryPoints {
	opening := int(math.Round(uniform(rng, float64(g.cfg.DeliveryOpeningMin), float64(g.cfg.DeliveryOpeningMax))))

	reduction1 := uniform(rng, g.cfg.TargetReductionMin, g.cfg.TargetReductionMax)
	reduction2 := uniform(rng, g.cfg.ReserveReductionMin, g.cfg.ReserveReductionMax)

	target := int(math.Round(float64(opening) * (1 - reduction1)))
	reservation := int(math.Round(float64(target) * (1 - reduction2)))

	if target >= opening-minDeliveryDiff {
		target = opening - minDeliveryDiff
	}
	if reservation >= target-minDeliveryDiff {
		reservation = target - minDeliveryDiff
	}

	return models.DeliveryPoints{OpeningDays: opening, TargetDays: target, ReservationDays: reservation}
}

// validate громко падает при нарушении монотонности уровней.
// При корректных диапазонах конфигурации сюда попасть нельзя.
func validate(p *models.SellerParameters) error {
	if !(p.Price.Reservation < p.Price.Target && p.Price.Target < p.Price.Opening) {
		return fmt.Errorf("dealgen: non-monotonic price points: %.2f / %.2f / %.2f",
			p.Price.Opening, p.Price.Target, p.Price.Reservation)
	}
	if p.Price.Reservation <= 0 {
		return fmt.Errorf("dealgen: reservation price must be positive, got %.2f", p.Price.Reservation)
	}
	if !(p.Delivery.ReservationDays < p.Delivery.TargetDays && p.Delivery.TargetDays < p.Delivery.OpeningDays) {
		return fmt.Errorf("dealgen: non-monotonic delivery points: %d / %d / %d",
			p.Delivery.OpeningDays, p.Delivery.TargetDays, p.Delivery.ReservationDays)
	}
	if p.Delivery.ReservationDays <= 0 {
		return fmt.Errorf("dealgen: reservation delivery must be positive, got %d", p.Delivery.ReservationDays)
	}
	found := false
	for _, tier := range p.Tiers {
		if tier == p.Volume {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("dealgen: volume tier %q is not in the tier table", p.Volume.Name)
	}
	return nil
}

// hashSeed превращает строковый идентификатор студента в seed для ГПСЧ.
// Одинаковая строка всегда дает одинаковый seed.
func hashSeed(seed string) int64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return int64(h.Sum64())
}

func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
