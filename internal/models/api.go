package models

import "time"

// NewSessionRequest - запрос на создание сессии. StudentID необязателен:
// с ним параметры продавца воспроизводимы, без него - случайны.
type NewSessionRequest struct {
	StudentID string `json:"student_id,omitempty"`
}

// NewSessionResponse - ответ на создание сессии. Закрытые числа продавца
// сюда намеренно не попадают, клиент видит только текстовую легенду.
type NewSessionResponse struct {
	SessionID string           `json:"session_id"`
	Scenario  string           `json:"scenario"`
	Greeting  string           `json:"greeting"`
	State     NegotiationState `json:"state"`
}

// ChatRequest - очередное сообщение студента.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse - реплика продавца и статус соглашения.
type ChatResponse struct {
	Reply             string           `json:"reply"`
	AgreementDetected bool             `json:"agreement_detected"`
	AgreedTerms       *AgreedTerms     `json:"agreed_terms,omitempty"`
	MissingTerms      []string         `json:"missing_terms,omitempty"`
	State             NegotiationState `json:"state"`
}

// SessionView - публичное представление сессии без закрытых параметров.
type SessionView struct {
	SessionID string             `json:"session_id"`
	CreatedAt time.Time          `json:"created_at"`
	State     NegotiationState   `json:"state"`
	Rounds    int                `json:"rounds"`
	History   []ConversationTurn `json:"history"`
}

// SessionListResponse - список активных сессий.
type SessionListResponse struct {
	Count    int      `json:"count"`
	Sessions []string `json:"sessions"`
}
