package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Team — команда и её репозитории.
type Team struct {
	Name         string   `json:"name"`
	Repositories []string `json:"repositories"`
}

// Teams — соответствие команд и репозиториев из файла конфигурации.
type Teams struct {
	Teams []Team `json:"teams"`
}

// Names возвращает имена команд в порядке объявления.
func (t Teams) Names() []string {
	names := make([]string, 0, len(t.Teams))
	for _, team := range t.Teams {
		names = append(names, team.Name)
	}
	return names
}

// Repositories возвращает репозитории команды и признак её существования.
func (t Teams) Repositories(name string) ([]string, bool) {
	for _, team := range t.Teams {
		if team.Name == name {
			return team.Repositories, true
		}
	}
	return nil, false
}

// LoadTeams загружает файл соответствия команд. Отсутствующий или
// некорректный файл — фатальная ошибка конфигурации.
func LoadTeams(path string) (Teams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Teams{}, fmt.Errorf("read teams file %s: %w", path, err)
	}

	var teams Teams
	if err := json.Unmarshal(data, &teams); err != nil {
		return Teams{}, fmt.Errorf("decode teams file %s: %w", path, err)
	}

	if len(teams.Teams) == 0 {
		return Teams{}, fmt.Errorf("teams file %s has no teams", path)
	}
	seen := make(map[string]struct{}, len(teams.Teams))
	for _, team := range teams.Teams {
		if team.Name == "" {
			return Teams{}, fmt.Errorf("teams file %s has a team without a name", path)
		}
		if _, dup := seen[team.Name]; dup {
			return Teams{}, fmt.Errorf("teams file %s has duplicate team %q", path, team.Name)
		}
		seen[team.Name] = struct{}{}
		if len(team.Repositories) == 0 {
			return Teams{}, fmt.Errorf("team %q has no repositories", team.Name)
		}
	}

	return teams, nil
}
