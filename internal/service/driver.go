package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cargotma/internal/domain"
	"cargotma/internal/redis"
	"cargotma/internal/repository"
)

// driverCacheSettle is how long after a profile update the cache entry is
// dropped again, clearing any copy written by a read that overlapped the update.
const driverCacheSettle = 500 * time.Millisecond

// DriverService handles driver profile operations.
type DriverService struct {
	driverRepo repository.DriverRepository
	cacheStore redis.DriverCacheInterface
	logger     *zap.Logger
}

// NewDriverService creates a new DriverService. cacheStore may be nil.
func NewDriverService(
	driverRepo repository.DriverRepository,
	cacheStore redis.DriverCacheInterface,
	logger *zap.Logger,
) *DriverService {
	return &DriverService{
		driverRepo: driverRepo,
		cacheStore: cacheStore,
		logger:     logger,
	}
}

// DriverProfile contains the editable part of a driver profile. Volumes are
// expressed in Unit; an empty unit means centimetres.
type DriverProfile struct {
	PriorityDirections []domain.Direction
	ExcludedDirections []domain.Direction
	CargoVolumes       []domain.Dimensions
	Unit               string
}

// RegisterDriverRequest contains the parameters for registering a driver.
type RegisterDriverRequest struct {
	UserID string
	DriverProfile
}

// UpdateDriverRequest contains the parameters for updating a driver profile.
type UpdateDriverRequest struct {
	DriverID string
	DriverProfile
}

// Register creates the driver profile for a user. A user has at most one profile.
func (s *DriverService) Register(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	profile, err := normalizeProfile(req.DriverProfile)
	if err != nil {
		return nil, err
	}

	_, err = s.driverRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		return nil, ErrDriverAlreadyRegistered
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	now := time.Now().UTC()
	driver := &domain.Driver{
		ID:                 uuid.New().String(),
		UserID:             userID,
		PriorityDirections: profile.PriorityDirections,
		ExcludedDirections: profile.ExcludedDirections,
		CargoVolumes:       profile.CargoVolumes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDriverAlreadyRegistered
		}
		return nil, err
	}

	s.warnOverlap(driver)
	s.cacheDriver(ctx, driver)

	return driver, nil
}

// UpdateProfile replaces a driver's routes and cargo volumes.
func (s *DriverService) UpdateProfile(ctx context.Context, req UpdateDriverRequest) (*domain.Driver, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}

	profile, err := normalizeProfile(req.DriverProfile)
	if err != nil {
		return nil, err
	}

	driver, err := s.GetDriver(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}

	driver.PriorityDirections = profile.PriorityDirections
	driver.ExcludedDirections = profile.ExcludedDirections
	driver.CargoVolumes = profile.CargoVolumes
	driver.UpdatedAt = time.Now().UTC()

	if err := s.driverRepo.Update(ctx, driver); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}

	s.invalidateDriver(ctx, driver.UserID)
	if s.cacheStore != nil {
		userID := driver.UserID
		bg := context.WithoutCancel(ctx)
		time.AfterFunc(driverCacheSettle, func() { s.invalidateDriver(bg, userID) })
	}
	s.warnOverlap(driver)

	return driver, nil
}

// GetDriver retrieves a driver by ID.
func (s *DriverService) GetDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return driver, nil
}

// GetDriverByUserID retrieves the driver profile owned by a user, serving
// from cache when possible.
func (s *DriverService) GetDriverByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetDriverByUser(ctx, userID)
		if err != nil {
			s.logger.Warn("read driver cache", zap.String("user_id", userID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}

	s.cacheDriver(ctx, driver)
	return driver, nil
}

// ListDrivers returns all driver profiles.
func (s *DriverService) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.GetAll(ctx)
}

func (s *DriverService) cacheDriver(ctx context.Context, driver *domain.Driver) {
	if s.cacheStore == nil {
		return
	}
	if err := s.cacheStore.SetDriver(ctx, driver); err != nil {
		s.logger.Warn("write driver cache", zap.String("user_id", driver.UserID), zap.Error(err))
	}
}

func (s *DriverService) invalidateDriver(ctx context.Context, userID string) {
	if s.cacheStore == nil {
		return
	}
	if err := s.cacheStore.InvalidateDriver(ctx, userID); err != nil {
		s.logger.Warn("invalidate driver cache", zap.String("user_id", userID), zap.Error(err))
	}
}

// warnOverlap logs routes that are both priority and excluded. Exclusion wins
// in matching.
func (s *DriverService) warnOverlap(driver *domain.Driver) {
	overlap := driver.OverlappingDirections()
	if len(overlap) == 0 {
		return
	}

	routes := make([]string, 0, len(overlap))
	for _, d := range overlap {
		routes = append(routes, d.Key())
	}
	s.logger.Warn("driver has routes both prioritised and excluded",
		zap.String("driver_id", driver.ID),
		zap.Strings("routes", routes),
	)
}

// normalizeProfile validates the profile, converts volumes to centimetres and
// drops duplicate entries.
func normalizeProfile(p DriverProfile) (DriverProfile, error) {
	unit, ok := domain.ParseUnit(p.Unit)
	if !ok {
		return DriverProfile{}, ErrInvalidUnit
	}

	priority, err := normalizeDirections(p.PriorityDirections)
	if err != nil {
		return DriverProfile{}, err
	}
	excluded, err := normalizeDirections(p.ExcludedDirections)
	if err != nil {
		return DriverProfile{}, err
	}

	volumes := make([]domain.Dimensions, 0, len(p.CargoVolumes))
	seen := make(map[domain.Dimensions]struct{}, len(p.CargoVolumes))
	for _, v := range p.CargoVolumes {
		if !v.IsPositive() {
			return DriverProfile{}, ErrInvalidCargoVolume
		}
		cm := v.ToCentimetres(unit)
		if _, dup := seen[cm]; dup {
			continue
		}
		seen[cm] = struct{}{}
		volumes = append(volumes, cm)
	}

	return DriverProfile{
		PriorityDirections: priority,
		ExcludedDirections: excluded,
		CargoVolumes:       volumes,
		Unit:               string(domain.UnitCentimetre),
	}, nil
}

func normalizeDirections(dirs []domain.Direction) ([]domain.Direction, error) {
	out := make([]domain.Direction, 0, len(dirs))
	seen := make(map[domain.Direction]struct{}, len(dirs))
	for _, d := range dirs {
		d = domain.Direction{From: strings.TrimSpace(d.From), To: strings.TrimSpace(d.To)}
		if d.From == "" || d.To == "" {
			return nil, ErrInvalidDirection
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}
