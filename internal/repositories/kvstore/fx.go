package kvstore

import (
	"go.uber.org/fx"
)

var Module = fx.Module("kvstore",
	fx.Provide(
		NewPgx,
		fx.Annotate(
			func(s *Pgx) Store {
				return s
			},
			fx.As(new(Store)),
		),
	),
)
