package services_test

import (
	"context"
	"testing"

	"github.com/dkswoans/2307-fastapiProjects/internal/application/services"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	users   *memUsers
	records *memRecords
	reviews *memReviews
	service *services.UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{users: &memUsers{}, records: &memRecords{}, reviews: &memReviews{}}
	trails := seededTrails(t)
	badges := memBadges{{ID: 1, Name: "First walk"}}
	facilities := newMemFacilities(entities.Facility{ID: 1, Name: "Court", Type: entities.FacilityTypeSports, Location: "A"})
	reservations := newMemReservations(entities.Reservation{ID: 1, FacilityID: 1, UserName: "Kim", UserPhone: "010", StartTime: at(10, 0), EndTime: at(11, 0)})

	f.service = services.NewUserService(f.users, badges, f.records, f.reviews, trails, facilities, reservations)

	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, &entities.User{Username: "testuser", Password: "testpass"}))
	require.NoError(t, f.users.Create(ctx, &entities.User{Username: "walker", Password: "pw"}))
	require.NoError(t, f.records.Create(ctx, &entities.WalkRecord{UserID: 1, TrailID: 1}))
	require.NoError(t, f.records.Create(ctx, &entities.WalkRecord{UserID: 2, TrailID: 2}))
	require.NoError(t, f.reviews.Create(ctx, &entities.TrailReview{UserID: 1, TrailID: 3, Rating: 5}))
	return f
}

func TestUserService_MyPage(t *testing.T) {
	f := newUserFixture(t)

	page, err := f.service.MyPage(asUser(1))
	require.NoError(t, err)
	assert.Equal(t, "testuser", page.User.Username)
	require.Len(t, page.Records, 1)
	assert.Equal(t, int64(1), page.Records[0].TrailID)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, 5, page.Reviews[0].Rating)
	assert.Len(t, page.Badges, 1)

	_, err = f.service.MyPage(asUser(40))
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.service.MyPage(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
}

func TestUserService_Dashboard(t *testing.T) {
	f := newUserFixture(t)

	dashboard, err := f.service.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &services.Dashboard{
		TrailCount:       3,
		RecordCount:      2,
		UserCount:        2,
		FacilityCount:    1,
		ReservationCount: 1,
	}, dashboard)
}
