package cacheclear

// UseCase — очистка кэша метрик целиком или по команде.
type UseCase interface {
	ClearCache() int
	ClearTeamCache(team string) int
}
