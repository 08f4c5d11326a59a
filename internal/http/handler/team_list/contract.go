package teamlist

// UseCase — список команд из конфигурации.
type UseCase interface {
	TeamNames() []string
}
