package internal

import (
	"agd/internal/controllers"
	"agd/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/character", http.HandlerFunc(apiController.GetCharacter))
	routers.Get("/material", http.HandlerFunc(apiController.GetMaterial))
	routers.Get("/weapon", http.HandlerFunc(apiController.GetWeapon))
	routers.Get("/artifact", http.HandlerFunc(apiController.GetArtifact))
	routers.Get("/affix", http.HandlerFunc(apiController.GetAffix))
	routers.Get("/property", http.HandlerFunc(apiController.GetProperty))
	routers.Get("/set", http.HandlerFunc(apiController.GetSet))
	routers.Get("/skill", http.HandlerFunc(apiController.GetSkillType))
	routers.Get("/ids", http.HandlerFunc(apiController.ListIDs))
	routers.Get("/revision", http.HandlerFunc(apiController.GetRevision))
	routers.Post("/sync", http.HandlerFunc(apiController.Sync))
	return routers
}
