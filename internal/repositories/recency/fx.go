package recency

import (
	"go.uber.org/fx"
)

var Module = fx.Module("recency_repository",
	fx.Provide(
		NewKV,
		fx.Annotate(
			func(repo *KV) Repository {
				return repo
			},
			fx.As(new(Repository)),
		),
	),
)
