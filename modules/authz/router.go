package authz

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/shiftops/authcore/pkg/credential"
	"github.com/shiftops/authcore/pkg/entitlement"
)

// RouterOptions wires the core services into the authz module.
// Resolver and Credentials are required; Manager enables the override
// administration endpoints and may be nil.
type RouterOptions struct {
	Resolver    *entitlement.Resolver
	Manager     *entitlement.Manager
	Credentials *credential.Service
	Logger      *slog.Logger
}

// Router creates the authz module router. Every route runs behind the
// principal middleware, which consumes the identity headers injected by the
// trusted authentication layer in front of this service.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/authz", authz.Router(authz.RouterOptions{
//	    Resolver:    resolver,
//	    Credentials: credSvc,
//	}))
func Router(opts RouterOptions) chi.Router {
	if opts.Resolver == nil {
		panic("authz: Resolver is required")
	}
	if opts.Credentials == nil {
		panic("authz: credential Service is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	h := &handlers{
		resolver: opts.Resolver,
		manager:  opts.Manager,
		creds:    opts.Credentials,
		log:      opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(PrincipalMiddleware(opts.Logger))

	r.Route("/orgs/{orgID}", func(org chi.Router) {
		org.Get("/users/{userID}/features", h.resolveFeatures)

		if opts.Manager != nil {
			org.Put("/users/{userID}/overrides/{featureKey}", h.setOverride)
			org.Delete("/users/{userID}/overrides/{featureKey}", h.clearOverride)
		}

		org.Route("/integrations/{integrationID}/credential", func(cred chi.Router) {
			cred.Put("/", h.putCredential)
			cred.Get("/", h.getCredential)
			cred.Delete("/", h.deleteCredential)
			cred.Post("/rotate", h.rotateCredential)
		})
	})

	return r
}
