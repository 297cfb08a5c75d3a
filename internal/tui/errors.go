package tui

import (
	"errors"
	"strings"

	"github.com/MKrupin/go-stock-keeper/internal/adapter"
	"github.com/MKrupin/go-stock-keeper/internal/service"
)

func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrWrongCredentials):
		return "Неверный логин или пароль"
	case errors.Is(err, service.ErrMutationInFlight):
		return "Запись уже отправляется — дождитесь окончания цикла"
	case errors.Is(err, adapter.ErrServerUnavailable):
		return "Отсутствует сеть или сервер недоступен"
	case errors.Is(err, adapter.ErrServerError):
		return "Сервер временно не отвечает — попробуйте позже"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "i/o timeout") {
		return "Отсутствует сеть или сервер недоступен"
	}

	return err.Error()
}
