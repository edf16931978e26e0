package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"clinic-backend/internal/repositories"
	"clinic-backend/pkg/utils"
)

const TenantIDKey contextKey = "tenant_id"

// TenantMiddleware resolves which clinic a request belongs to. The tenant
// comes from the X-Tenant-ID header, or failing that from the Host
// subdomain (cityclinic.example.com -> subdomain "cityclinic"). Every
// downstream query is scoped to the resolved tenant.
type TenantMiddleware struct {
	tenantRepo *repositories.TenantRepository
}

func NewTenantMiddleware(tenantRepo *repositories.TenantRepository) *TenantMiddleware {
	return &TenantMiddleware{tenantRepo: tenantRepo}
}

func (m *TenantMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := m.resolveTenantID(r)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		tenant, terr := m.tenantRepo.Get(r.Context(), tenantID)
		if terr != nil {
			utils.Error(w, http.StatusNotFound, "Tenant not found")
			return
		}
		if !tenant.IsActive {
			utils.Error(w, http.StatusForbidden, "Tenant is suspended")
			return
		}

		// A staff user bound to a tenant may only act within it.
		// Platform admins carry no tenant and may act anywhere.
		if userTenant, ok := GetUserTenantIDFromContext(r.Context()); ok && userTenant != nil && *userTenant != tenant.ID {
			utils.Error(w, http.StatusForbidden, "Forbidden: wrong tenant")
			return
		}

		ctx := context.WithValue(r.Context(), TenantIDKey, tenant.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *TenantMiddleware) resolveTenantID(r *http.Request) (int, error) {
	if header := r.Header.Get("X-Tenant-ID"); header != "" {
		id, err := strconv.Atoi(header)
		if err != nil || id <= 0 {
			return 0, errInvalidTenantHeader
		}
		return id, nil
	}

	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	parts := strings.Split(host, ".")
	if len(parts) >= 3 {
		tenant, err := m.tenantRepo.GetBySubdomain(r.Context(), parts[0])
		if err == nil {
			return tenant.ID, nil
		}
	}
	return 0, errNoTenant
}

var (
	errInvalidTenantHeader = errors.New("Invalid X-Tenant-ID header")
	errNoTenant            = errors.New("Tenant could not be determined from header or subdomain")
)

// GetTenantIDFromContext extracts the resolved tenant from request context
func GetTenantIDFromContext(ctx context.Context) (int, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(int)
	return tenantID, ok
}
