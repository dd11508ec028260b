package appointment

import (
	"context"
	"encoding/json"
	"time"

	"medagenda/config"
	"medagenda/models"
	"medagenda/utils"

	"go.uber.org/zap"
)

const cacheKeyPrefix = "appointment:"

// cacheGet returns the cached record for the id, or nil on any miss or error.
// The cache is strictly an optimization; failures never surface to callers.
func (s *DefaultAppointmentService) cacheGet(ctx context.Context, id string) *models.Appointment {
	if s.Cache == nil {
		return nil
	}
	data, err := s.Cache.Get(ctx, cacheKeyPrefix+id).Bytes()
	if err != nil {
		return nil
	}
	var appt models.Appointment
	if err := json.Unmarshal(data, &appt); err != nil {
		return nil
	}
	return &appt
}

func (s *DefaultAppointmentService) cacheSet(ctx context.Context, id string, appt *models.Appointment) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(appt)
	if err != nil {
		return
	}
	ttl := time.Duration(config.AppConfig.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if err := s.Cache.Set(ctx, cacheKeyPrefix+id, data, ttl).Err(); err != nil {
		utils.GetLogger().Debug("appointment cache set failed", zap.String("id", id), zap.Error(err))
	}
}

func (s *DefaultAppointmentService) cacheInvalidate(ctx context.Context, id string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, cacheKeyPrefix+id).Err(); err != nil {
		utils.GetLogger().Debug("appointment cache invalidation failed", zap.String("id", id), zap.Error(err))
	}
}
