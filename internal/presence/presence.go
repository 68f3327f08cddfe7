// Package presence отслеживает подключённых пользователей и доставляет им
// события в реальном времени. Пользователь считается онлайн, пока у него
// открыт хотя бы один поток событий.
package presence

import (
	"sync"

	"github.com/renteaseone/rentease-backend/internal/models"
)

// Tracker — интерфейс присутствия для сервисов уведомлений.
type Tracker interface {
	IsOnline(userUID string) bool
	Deliver(userUID string, notification *models.Notification) bool
}

// Hub — потокобезопасный реестр открытых потоков событий.
// Один пользователь может держать несколько потоков (несколько вкладок).
type Hub struct {
	mu      sync.RWMutex
	streams map[string]map[chan *models.Notification]struct{}
}

// NewHub создаёт пустой реестр.
func NewHub() *Hub {
	return &Hub{
		streams: make(map[string]map[chan *models.Notification]struct{}),
	}
}

// Subscribe регистрирует новый поток событий для пользователя и возвращает
// канал доставки. Канал буферизован, чтобы медленный клиент не блокировал
// отправителя.
func (h *Hub) Subscribe(userUID string) chan *models.Notification {
	ch := make(chan *models.Notification, 16)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.streams[userUID] == nil {
		h.streams[userUID] = make(map[chan *models.Notification]struct{})
	}
	h.streams[userUID][ch] = struct{}{}
	return ch
}

// Unsubscribe снимает регистрацию потока и закрывает канал.
func (h *Hub) Unsubscribe(userUID string, ch chan *models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.streams[userUID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(h.streams, userUID)
	}
	close(ch)
}

// IsOnline сообщает, есть ли у пользователя хотя бы один открытый поток.
func (h *Hub) IsOnline(userUID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams[userUID]) > 0
}

// Deliver рассылает уведомление во все потоки пользователя. Возвращает true,
// если хотя бы один поток принял событие. Переполненные потоки пропускаются.
func (h *Hub) Deliver(userUID string, notification *models.Notification) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := false
	for ch := range h.streams[userUID] {
		select {
		case ch <- notification:
			delivered = true
		default:
		}
	}
	return delivered
}
