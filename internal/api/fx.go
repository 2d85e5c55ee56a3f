// Package api is the HTTP server behind the site's poll widget and stats page.
package api

import (
	"go.uber.org/fx"
)

var Module = fx.Module("api",
	fx.Provide(
		newLifecycleServer,
	),
)
