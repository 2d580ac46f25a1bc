package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Jamolkhon5/negotiator/internal/models"
)

// Контекстные слова, при которых одиночное число трактуется как объем заказа.
var volumeContextWords = []string{"units", "order", "volume", "quantity"}

// Extractor извлекает числовые условия сделки из свободного текста.
// Политика при нескольких совпадениях: побеждает последнее вхождение,
// более позднее упоминание в сообщении перекрывает более раннее.
type Extractor struct {
	price       *regexp.Regexp
	delivery    *regexp.Regexp
	volThousand *regexp.Regexp
	volUnits    *regexp.Regexp
	volBare     *regexp.Regexp
}

func New() *Extractor {
	return &Extractor{
		price:       regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.\d+)?)`),
		delivery:    regexp.MustCompile(`(\d+)\s*days?`),
		volThousand: regexp.MustCompile(`(\d{1,3}(?:,\d{3})*|\d+\.?\d*)\s*(?:thousand|k)\b`),
		volUnits:    regexp.MustCompile(`(\d{1,3}(?:,\d{3})*|\d+\.?\d*)\s*units?\b`),
		volBare:     regexp.MustCompile(`(\d{1,3}(?:,\d{3})*|\d+)`),
	}
}

// Extract разбирает сообщение по всем трем условиям сразу.
// Частичное извлечение - нормальная ситуация, а не ошибка.
func (e *Extractor) Extract(text string) models.ExtractedTerms {
	return models.ExtractedTerms{
		Price:        e.Price(text),
		DeliveryDays: e.Delivery(text),
		Volume:       e.Volume(text),
	}
}

// Price возвращает последнюю упомянутую цену вида $NN[.NN], либо nil.
func (e *Extractor) Price(text string) *float64 {
	if text == "" {
		return nil
	}
	match := lastSubmatch(e.price, text)
	if match == "" {
		return nil
	}
	value, err := strconv.ParseFloat(stripCommas(match), 64)
	if err != nil {
		return nil
	}
	return &value
}

// Delivery возвращает последний упомянутый срок поставки в днях, либо nil.
func (e *Extractor) Delivery(text string) *int {
	if text == "" {
		return nil
	}
	match := lastSubmatch(e.delivery, strings.ToLower(text))
	if match == "" {
		return nil
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &value
}

// Volume возвращает последний упомянутый объем заказа, либо nil.
// Суффиксы "k" и "thousand" нормализуются умножением на 1000; одиночное
// число принимается только при наличии контекстного слова рядом.
func (e *Extractor) Volume(text string) *int {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	if match := lastSubmatch(e.volThousand, lower); match != "" {
		if value, err := strconv.ParseFloat(stripCommas(match), 64); err == nil {
			result := int(value * 1000)
			return &result
		}
	}

	if match := lastSubmatch(e.volUnits, lower); match != "" {
		if value, err := strconv.ParseFloat(stripCommas(match), 64); err == nil {
			result := int(value)
			return &result
		}
	}

	// Число без суффикса считаем объемом только в явном контексте заказа
	for _, word := range volumeContextWords {
		if strings.Contains(lower, word) {
			if match := lastSubmatch(e.volBare, lower); match != "" {
				if value, err := strconv.ParseFloat(stripCommas(match), 64); err == nil {
					result := int(value)
					return &result
				}
			}
			break
		}
	}
	return nil
}

// lastSubmatch возвращает первую группу последнего совпадения паттерна.
func lastSubmatch(re *regexp.Regexp, text string) string {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(matches[len(matches)-1][1])
}

func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
