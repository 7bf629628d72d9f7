package services

import (
	"context"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
)

// DefaultUsername is the account every unauthenticated demo request acts as
const DefaultUsername = "testuser"

const defaultPassword = "testpass"

// BootstrapResult reports what a bootstrap run inserted
type BootstrapResult struct {
	UserCreated      bool `json:"user_created"`
	TrailsSeeded     int  `json:"trails_seeded"`
	FacilitiesSeeded int  `json:"facilities_seeded"`
}

// BootstrapService seeds the rows the application expects on a fresh database
type BootstrapService struct {
	users      repositories.UserRepository
	trails     *TrailService
	facilities repositories.FacilityRepository
}

// NewBootstrapService creates a new bootstrap service. facilities may be nil to skip demo facilities.
func NewBootstrapService(users repositories.UserRepository, trails *TrailService, facilities repositories.FacilityRepository) *BootstrapService {
	return &BootstrapService{
		users:      users,
		trails:     trails,
		facilities: facilities,
	}
}

// Run ensures the default user exists and seeds trails and facilities into empty tables.
// Running it again on a seeded database inserts nothing.
func (s *BootstrapService) Run(ctx context.Context) (*BootstrapResult, error) {
	logger := observability.LoggerFromContext(ctx)
	result := &BootstrapResult{}

	_, err := s.users.GetByUsername(ctx, DefaultUsername)
	switch {
	case apperrors.IsNotFound(err):
		if err := s.users.Create(ctx, &entities.User{Username: DefaultUsername, Password: defaultPassword}); err != nil {
			return nil, err
		}
		result.UserCreated = true
	case err != nil:
		return nil, err
	}

	trailCount, err := s.trails.Count(ctx)
	if err != nil {
		return nil, err
	}
	if trailCount == 0 {
		for _, trail := range DefaultTrails() {
			if _, err := s.trails.Create(ctx, trail); err != nil {
				return nil, err
			}
			result.TrailsSeeded++
		}
	}

	if s.facilities != nil {
		facilityCount, err := s.facilities.Count(ctx)
		if err != nil {
			return nil, err
		}
		if facilityCount == 0 {
			for _, facility := range DemoFacilities() {
				if err := s.facilities.Create(ctx, facility); err != nil {
					return nil, err
				}
				result.FacilitiesSeeded++
			}
		}
	}

	logger.Info().
		Bool("user_created", result.UserCreated).
		Int("trails_seeded", result.TrailsSeeded).
		Int("facilities_seeded", result.FacilitiesSeeded).
		Msg("Bootstrap completed")
	return result, nil
}

// DefaultTrails returns the trails seeded into an empty database
func DefaultTrails() []*entities.Trail {
	return []*entities.Trail{
		{
			Name:        "한강공원 산책로",
			Type:        entities.TrailTypeRiver,
			Location:    "서울특별시 영등포구",
			DistanceKm:  5.2,
			Description: strPtr("한강을 따라 걷는 대표적인 산책로."),
			ImageURL:    strPtr("https://images.unsplash.com/photo-1506744038136-46273834b3fb"),
		},
		{
			Name:        "서울숲 산책로",
			Type:        entities.TrailTypePark,
			Location:    "서울특별시 성동구",
			DistanceKm:  3.1,
			Description: strPtr("도심 속 자연을 느낄 수 있는 산책로."),
			ImageURL:    strPtr("https://images.unsplash.com/photo-1465101046530-73398c7f28ca"),
		},
		{
			Name:        "북한산 둘레길",
			Type:        entities.TrailTypeForest,
			Location:    "서울특별시 은평구",
			DistanceKm:  7.8,
			Description: strPtr("산림욕과 함께 걷기 좋은 숲길."),
			ImageURL:    strPtr("https://images.unsplash.com/photo-1500534314209-a25ddb2bd429"),
		},
	}
}

// DemoFacilities returns the facilities seeded into an empty database
func DemoFacilities() []*entities.Facility {
	return []*entities.Facility{
		{
			Name:        "마포구민체육센터 배드민턴장",
			Type:        entities.FacilityTypeSports,
			Location:    "서울특별시 마포구",
			Capacity:    intPtr(12),
			Description: strPtr("실내 배드민턴 코트 4면"),
		},
		{
			Name:     "성동구립도서관 열람실",
			Type:     entities.FacilityTypeLibrary,
			Location: "서울특별시 성동구",
			Capacity: intPtr(40),
		},
		{
			Name:     "은평구 주민센터 다목적홀",
			Type:     entities.FacilityTypeCommunityCenter,
			Location: "서울특별시 은평구",
		},
	}
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
