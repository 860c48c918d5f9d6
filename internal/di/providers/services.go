package providers

import (
	"github.com/samber/do/v2"

	"github.com/booklistapp/booklist-server/internal/auth"
	"github.com/booklistapp/booklist-server/internal/logger"
	"github.com/booklistapp/booklist-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideListService provides the list curation service.
func ProvideListService(i do.Injector) (*service.ListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewListService(storeHandle.Store, log.Logger), nil
}

// ProvideUserService provides the user profile service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	listService := do.MustInvoke[*service.ListService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, listService, log.Logger), nil
}
