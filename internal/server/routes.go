package server

import (
	"github.com/danielgtaylor/huma/v2"

	apiv1 "github.com/turnkeeper/turnkeeper/internal/api/v1"
	"github.com/turnkeeper/turnkeeper/internal/directory"
	"github.com/turnkeeper/turnkeeper/internal/federation"
	"github.com/turnkeeper/turnkeeper/internal/messaging"
	"github.com/turnkeeper/turnkeeper/internal/store/postgres"
)

func registerAuthRoutes(api huma.API, store *postgres.Store, authSvc apiv1.AuthService) {
	apiv1.RegisterAuthRoutes(api, store, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, dir *directory.Service, fed *federation.Resolver, gate *messaging.Service) {
	apiv1.RegisterTenantRoutes(api, store)
	apiv1.RegisterTeamRoutes(api, store, dir)
	apiv1.RegisterWorkgroupRoutes(api, store, fed)
	apiv1.RegisterExecutorLinkRoutes(api, store, fed)
	apiv1.RegisterThreadRoutes(api, gate)
}
