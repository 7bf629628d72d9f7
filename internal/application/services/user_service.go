package services

import (
	"context"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
)

// MyPage is everything shown on a user's own page
type MyPage struct {
	User    *entities.User          `json:"user"`
	Records []*entities.WalkRecord  `json:"records"`
	Reviews []*entities.TrailReview `json:"reviews"`
	Badges  []*entities.Badge       `json:"badges"`
}

// Dashboard holds the site-wide counters
type Dashboard struct {
	TrailCount       int64 `json:"trail_count"`
	RecordCount      int64 `json:"record_count"`
	UserCount        int64 `json:"user_count"`
	FacilityCount    int64 `json:"facility_count"`
	ReservationCount int64 `json:"reservation_count"`
}

// UserService serves user pages and the dashboard
type UserService struct {
	users        repositories.UserRepository
	badges       repositories.BadgeRepository
	records      repositories.WalkRecordRepository
	reviews      repositories.ReviewRepository
	trails       repositories.TrailRepository
	facilities   repositories.FacilityRepository
	reservations repositories.ReservationRepository
}

// NewUserService creates a new user service
func NewUserService(
	users repositories.UserRepository,
	badges repositories.BadgeRepository,
	records repositories.WalkRecordRepository,
	reviews repositories.ReviewRepository,
	trails repositories.TrailRepository,
	facilities repositories.FacilityRepository,
	reservations repositories.ReservationRepository,
) *UserService {
	return &UserService{
		users:        users,
		badges:       badges,
		records:      records,
		reviews:      reviews,
		trails:       trails,
		facilities:   facilities,
		reservations: reservations,
	}
}

// MyPage loads the caller's profile with their walk records and reviews
func (s *UserService) MyPage(ctx context.Context) (*MyPage, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	records, err := s.records.ListByUser(ctx, user.ID, 0, 0)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByUser(ctx, user.ID, 0, 0)
	if err != nil {
		return nil, err
	}

	page := &MyPage{User: user, Records: records, Reviews: reviews, Badges: []*entities.Badge{}}
	if s.badges != nil {
		badges, err := s.badges.List(ctx)
		if err != nil {
			return nil, err
		}
		page.Badges = badges
	}
	return page, nil
}

type counter struct {
	count func(context.Context) (int64, error)
	dst   *int64
}

// Dashboard counts trails, walk records, users, facilities and reservations
func (s *UserService) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	counters := []counter{
		{s.trails.Count, &d.TrailCount},
		{s.records.Count, &d.RecordCount},
		{s.users.Count, &d.UserCount},
	}
	if s.facilities != nil {
		counters = append(counters, counter{s.facilities.Count, &d.FacilityCount})
	}
	if s.reservations != nil {
		counters = append(counters, counter{s.reservations.Count, &d.ReservationCount})
	}

	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return d, nil
}
