package session

import (
	"errors"
	"time"

	"github.com/Jamolkhon5/negotiator/internal/models"
)

// ErrNotFound возвращается при обращении к несуществующей сессии.
// Клиент восстанавливается созданием новой сессии.
var ErrNotFound = errors.New("session not found")

// Session - состояние одной переговорной сессии.
type Session struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"created_at"`
	Seed      string                    `json:"seed,omitempty"`
	Params    *models.SellerParameters  `json:"params"`
	History   []models.ConversationTurn `json:"history"`
	State     models.NegotiationState   `json:"state"`

	// LastOffer - накопленный взгляд валидатора: последнее известное
	// значение каждого условия из реплик продавца. Переживает раунды.
	LastOffer models.ExtractedTerms `json:"last_offer"`

	// Agreed фиксируется в момент подтверждения соглашения,
	// Evaluation - один раз после оценки. Оба неизменяемы после записи.
	Agreed     *models.AgreedTerms      `json:"agreed,omitempty"`
	Evaluation *models.EvaluationResult `json:"evaluation,omitempty"`
}

// AppendTurn добавляет реплику в историю. История append-only,
// порядок реплик значим.
func (s *Session) AppendTurn(role, content string, now time.Time) {
	s.History = append(s.History, models.ConversationTurn{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
}

// Rounds - количество реплик студента.
func (s *Session) Rounds() int {
	n := 0
	for _, turn := range s.History {
		if turn.Role == models.RoleUser {
			n++
		}
	}
	return n
}

// Store - хранилище сессий. In-memory реализация живет в этом пакете,
// Postgres-реализация - в internal/repository за тем же интерфейсом.
//
// Lock сериализует мутации одной сессии: два конкурирующих запроса
// не могут перемешать порядок реплик в истории. За пределами этого
// действует last-write-wins, для учебного сервиса этого достаточно.
type Store interface {
	Get(id string) (*Session, error)
	Put(s *Session) error
	Delete(id string) error
	List() ([]string, error)
	Lock(id string) (unlock func())
}
