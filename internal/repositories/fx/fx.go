package fx

import (
	"github.com/orgball2608/insta-profile-viewer/internal/repositories/kvstore"
	"github.com/orgball2608/insta-profile-viewer/internal/repositories/recency"
	"go.uber.org/fx"
)

var Module = fx.Options(
	kvstore.Module,
	recency.Module,
)
