// File: services/assistant/profile_cache.go
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	businessRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/business"
	employeeRepo "github.com/JustinVargasQ/ProyectoBueno/database/repository/employee"
	"github.com/JustinVargasQ/ProyectoBueno/models"
	"github.com/JustinVargasQ/ProyectoBueno/services/availability"
	"github.com/JustinVargasQ/ProyectoBueno/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const profileCachePrefix = "assistant:profile:"

// BusinessProfile is the business plus its active roster, assembled once per
// turn for dialogue context. Slot availability is never part of the profile:
// it is recomputed from the ledger on every turn.
type BusinessProfile struct {
	Business  *models.Business  `json:"business"`
	Employees []models.Employee `json:"employees"`
}

// ProfileLoader resolves the dialogue context profile for a business.
type ProfileLoader interface {
	Load(ctx context.Context, businessID string) (*BusinessProfile, error)
}

// CachedProfileLoader reads through a short-TTL Redis cache in front of the
// business and employee repositories. The cache is best effort: Redis
// failures fall through to Mongo.
type CachedProfileLoader struct {
	BusinessRepo businessRepo.BusinessRepository
	EmployeeRepo employeeRepo.EmployeeRepository
	Cache        *redis.Client
	TTL          time.Duration
}

// NewCachedProfileLoader wires the read-through loader.
func NewCachedProfileLoader(
	bizRepo businessRepo.BusinessRepository,
	empRepo employeeRepo.EmployeeRepository,
	cache *redis.Client,
	ttl time.Duration,
) *CachedProfileLoader {
	return &CachedProfileLoader{
		BusinessRepo: bizRepo,
		EmployeeRepo: empRepo,
		Cache:        cache,
		TTL:          ttl,
	}
}

// Load returns the cached profile when fresh, otherwise rebuilds it from the
// repositories. An unknown business is a ValidationError.
func (l *CachedProfileLoader) Load(ctx context.Context, businessID string) (*BusinessProfile, error) {
	key := profileCachePrefix + businessID

	if l.Cache != nil {
		data, err := l.Cache.Get(ctx, key).Result()
		if err == nil {
			var profile BusinessProfile
			if err := json.Unmarshal([]byte(data), &profile); err == nil {
				return &profile, nil
			}
		} else if err != redis.Nil {
			utils.GetLogger().Warn("profile cache read failed", zap.String("businessID", businessID), zap.Error(err))
		}
	}

	business, err := l.BusinessRepo.GetByID(businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to load business %s: %w", businessID, err)
	}
	if business == nil {
		return nil, availability.NewValidationError(fmt.Sprintf("unknown business id %q", businessID))
	}

	profile := &BusinessProfile{Business: business}
	if business.PerEmployee() {
		employees, err := l.EmployeeRepo.GetActiveByBusiness(businessID)
		if err != nil {
			return nil, fmt.Errorf("failed to load employees for business %s: %w", businessID, err)
		}
		profile.Employees = employees
	}

	if l.Cache != nil {
		if b, err := json.Marshal(profile); err == nil {
			if err := l.Cache.Set(ctx, key, b, l.TTL).Err(); err != nil {
				utils.GetLogger().Warn("profile cache write failed", zap.String("businessID", businessID), zap.Error(err))
			}
		}
	}
	return profile, nil
}
