package domain

import "errors"

// Доменные ошибки, используемые для обработки бизнес-логики.
// Эти ошибки преобразуются в HTTP-ответы в слое обработчиков.
var (
	ErrTeamNotFound = errors.New("team not found") // Возникает при запросе команды, отсутствующей в конфигурации.
)
