package clients

import (
	"net/http"
	"strings"
	"sync"
)

// Session хранит токен Data API. Создаётся один раз приложением и передаётся клиенту.
type Session struct {
	mu    sync.RWMutex
	token string
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Session) Clear() {
	s.SetToken("")
}

// Authorize ставит Bearer, если токен уже есть.
func (s *Session) Authorize(req *http.Request) {
	token := s.Token()
	if strings.TrimSpace(token) == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}
