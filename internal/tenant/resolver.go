package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// reservedRoutes are first path segments that can never be tenant slugs.
var reservedRoutes = map[string]struct{}{
	"":             {},
	"api":          {},
	"auth":         {},
	"admin":        {},
	"dashboard":    {},
	"students":     {},
	"staff":        {},
	"users":        {},
	"attendance":   {},
	"modules":      {},
	"tenants":      {},
	"unauthorized": {},
	"login":        {},
	"register":     {},
	"healthz":      {},
	"metrics":      {},
	"static":       {},
	"jobs":         {},
	"report":       {},
	"welcome":      {},
	"favicon.ico":  {},
}

// globalRoutes are reserved segments where tenant context does not apply.
// A super_admin navigating here has any sticky tenant context cleared, and
// an invalid slug one segment earlier is tolerated silently.
var globalRoutes = map[string]struct{}{
	"auth":     {},
	"admin":    {},
	"healthz":  {},
	"metrics":  {},
	"welcome":  {},
	"register": {},
	"login":    {},
}

// Resolution is the outcome of resolving one request path.
type Resolution struct {
	State  State
	Tenant *shared.TenantRef
	Reason string

	// ClearSticky signals the caller's cached tenant must be purged.
	ClearSticky bool
	// Silent suppresses the not-found response on global/auth routes.
	Silent bool
	// Err carries the lookup failure when State is StateError.
	Err error
}

// Resolver maps request paths to tenant context. Lookups go through a
// short-lived Redis cache and are deduplicated with singleflight; only
// valid tenants are ever cached.
type Resolver struct {
	repo     Repository
	client   *redis.Client
	cacheTTL time.Duration
	group    singleflight.Group
}

// NewResolver constructs a Resolver.
func NewResolver(repo Repository, client *redis.Client, cacheTTL time.Duration) *Resolver {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Resolver{repo: repo, client: client, cacheTTL: cacheTTL}
}

// Resolve runs the tenant state machine for one request path.
func (rv *Resolver) Resolve(ctx context.Context, path string, identity *shared.Identity) Resolution {
	first, second := splitPath(path)

	if _, reserved := reservedRoutes[first]; reserved {
		_, global := globalRoutes[first]
		if global && identity != nil && identity.Role == "super_admin" {
			// Global routes run tenant-less for the platform operator.
			return Resolution{State: StateNoTenant, ClearSticky: true}
		}
		if identity != nil && identity.TenantSlug != "" {
			ref, err := rv.lookup(ctx, identity.TenantSlug)
			if err != nil {
				if errors.Is(err, httpx.ErrNotFound) {
					// The sticky slug no longer resolves; drop it.
					return Resolution{State: StateInvalid, Reason: "cached tenant no longer valid", ClearSticky: true, Silent: true}
				}
				return Resolution{State: StateError, Err: err}
			}
			return Resolution{State: StateValid, Tenant: ref}
		}
		return Resolution{State: StateNoTenant}
	}

	// Candidate tenant slug from the path.
	ref, err := rv.lookup(ctx, first)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			// Infrastructure failure, not a bad slug. The sticky tenant stays.
			return Resolution{State: StateError, Err: err}
		}
		_, global := globalRoutes[second]
		return Resolution{
			State:       StateInvalid,
			Reason:      "unknown tenant " + first,
			ClearSticky: true,
			Silent:      global,
		}
	}
	return Resolution{State: StateValid, Tenant: ref}
}

// ClearCache drops the cached entry for a slug, e.g. after tenant updates.
func (rv *Resolver) ClearCache(ctx context.Context, slug string) error {
	if rv.client == nil || slug == "" {
		return nil
	}
	if err := rv.client.Del(ctx, rv.cacheKey(slug)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (rv *Resolver) lookup(ctx context.Context, slug string) (*shared.TenantRef, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, httpx.ErrNotFound
	}

	if rv.client != nil {
		if payload, err := rv.client.Get(ctx, rv.cacheKey(slug)).Bytes(); err == nil {
			var ref shared.TenantRef
			if err := json.Unmarshal(payload, &ref); err == nil {
				return &ref, nil
			}
			_ = rv.client.Del(ctx, rv.cacheKey(slug)).Err()
		}
	}

	value, err, _ := rv.group.Do(slug, func() (interface{}, error) {
		t, err := rv.repo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return &shared.TenantRef{ID: t.ID, Slug: t.Slug, Name: t.Name}, nil
	})
	if err != nil {
		return nil, err
	}
	ref := value.(*shared.TenantRef)

	if rv.client != nil {
		if data, err := json.Marshal(ref); err == nil {
			_ = rv.client.Set(ctx, rv.cacheKey(slug), data, rv.cacheTTL).Err()
		}
	}
	return ref, nil
}

func (rv *Resolver) cacheKey(slug string) string {
	return "tenant:slug:" + slug
}

func splitPath(path string) (first, second string) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "", ""
	}
	parts := strings.SplitN(trimmed, "/", 3)
	first = strings.ToLower(parts[0])
	if len(parts) > 1 {
		second = strings.ToLower(parts[1])
	}
	return first, second
}
