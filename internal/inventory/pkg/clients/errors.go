package clients

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoToken - логин прошёл, но токена в ответе нет.
var ErrNoToken = errors.New("login response carries no token")

// AuthenticationError - логин не дал пригодного токена или учётные данные отклонены.
type AuthenticationError struct {
	Status   int
	Messages []Message
	Err      error
}

func (e *AuthenticationError) Error() string {
	var b strings.Builder
	b.WriteString("authentication failed")
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d): check username/password and API privileges", e.Status)
	}
	if msgs := joinMessages(e.Messages); msgs != "" {
		b.WriteString(": " + msgs)
	}
	if e.Err != nil && e.Status == 0 {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

func (e *AuthenticationError) StatusCode() int { return e.Status }

// TransportError - сетевая ошибка или не-2xx ответ. Status == 0, если ответа не было.
type TransportError struct {
	Op       string
	Status   int
	Offset   int
	Messages []Message
	Err      error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.Status)
	} else {
		b.WriteString(": network error")
	}
	if e.Offset > 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if msgs := joinMessages(e.Messages); msgs != "" {
		b.WriteString(": " + msgs)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) StatusCode() int { return e.Status }

func joinMessages(msgs []Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Message == "" || m.Code == "0" {
			continue
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", m.Code, m.Message))
	}
	return strings.Join(parts, "; ")
}
