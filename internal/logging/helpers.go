package logging

import "context"

func with(ctx context.Context, mutate func(c *logCtx)) context.Context {
	c := logCtx{}
	if x, ok := ctx.Value(key).(logCtx); ok {
		c = x
	}
	mutate(&c)
	return context.WithValue(ctx, key, c)
}

// WithLogRequestID добавляет идентификатор запроса в контекст логирования.
func WithLogRequestID(ctx context.Context, id string) context.Context {
	return with(ctx, func(c *logCtx) { c.RequestID = id })
}

// WithLogStatus добавляет HTTP-статус ответа в контекст логирования.
func WithLogStatus(ctx context.Context, status int) context.Context {
	return with(ctx, func(c *logCtx) { c.Status = status })
}

// WithLogRequestStart добавляет время начала обработки запроса.
func WithLogRequestStart(ctx context.Context, start string) context.Context {
	return with(ctx, func(c *logCtx) { c.RequestStart = start })
}

// WithLogRequestDuration добавляет длительность обработки запроса.
func WithLogRequestDuration(ctx context.Context, dur string) context.Context {
	return with(ctx, func(c *logCtx) { c.RequestDuration = dur })
}

// WithLogMethod добавляет HTTP-метод запроса.
func WithLogMethod(ctx context.Context, method string) context.Context {
	return with(ctx, func(c *logCtx) { c.Method = method })
}

// WithLogPath добавляет путь запроса.
func WithLogPath(ctx context.Context, path string) context.Context {
	return with(ctx, func(c *logCtx) { c.Path = path })
}

// WithLogTeamName добавляет имя команды, метрики которой считаются.
func WithLogTeamName(ctx context.Context, team string) context.Context {
	return with(ctx, func(c *logCtx) { c.TeamName = team })
}

// WithLogRepository добавляет имя репозитория.
func WithLogRepository(ctx context.Context, repo string) context.Context {
	return with(ctx, func(c *logCtx) { c.Repository = repo })
}

// WithLogCacheStrategy добавляет выбранную стратегию кэширования.
func WithLogCacheStrategy(ctx context.Context, strategy string) context.Context {
	return with(ctx, func(c *logCtx) { c.CacheStrategy = strategy })
}

// WithLogCacheKey добавляет ключ кэша.
func WithLogCacheKey(ctx context.Context, cacheKey string) context.Context {
	return with(ctx, func(c *logCtx) { c.CacheKey = cacheKey })
}
