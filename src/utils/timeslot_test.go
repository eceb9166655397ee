package utils

import (
	"testing"

	"rms/src/models"
	"rms/src/types"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	m, err := ParseClock("19:30")
	assert.NoError(t, err)
	assert.Equal(t, 19*60+30, m)

	m, err = ParseClock("00:00")
	assert.NoError(t, err)
	assert.Equal(t, 0, m)

	_, err = ParseClock("7pm")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = ParseClock("25:00")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestSlotOverlaps(t *testing.T) {
	seven := 19 * 60

	// identical slots collide
	assert.True(t, SlotOverlaps(seven, 120, seven, 120))

	// a 19:00 seating and a 20:30 seating collide on the same table even
	// though they fall into different hour buckets
	assert.True(t, SlotOverlaps(seven, 120, seven+90, 120))

	// intervals are half open, so back to back seatings do not collide
	assert.False(t, SlotOverlaps(seven, 120, seven+120, 120))
	assert.False(t, SlotOverlaps(seven+120, 120, seven, 120))

	// full containment
	assert.True(t, SlotOverlaps(seven, 240, seven+60, 30))
	assert.True(t, SlotOverlaps(seven+60, 30, seven, 240))

	assert.False(t, SlotOverlaps(seven, 60, seven+61, 60))
}

func TestEndClock(t *testing.T) {
	assert.Equal(t, "21:00", EndClock("19:00", 120))
	assert.Equal(t, "20:30", EndClock("19:00", 90))
	// wraps past midnight
	assert.Equal(t, "00:30", EndClock("23:00", 90))
	assert.Equal(t, "", EndClock("bad", 120))
}

func TestDurationOrDefault(t *testing.T) {
	assert.Equal(t, 120, DurationOrDefault(nil))
	zero := 0
	assert.Equal(t, 120, DurationOrDefault(&zero))
	ninety := 90
	assert.Equal(t, 90, DurationOrDefault(&ninety))
}

func TestAuthorizeOwnerOrRole(t *testing.T) {
	assert.NoError(t, AuthorizeOwnerOrRole(7, types.ROLE_CUSTOMER, 7, types.AuthorizerRoles...))
	assert.NoError(t, AuthorizeOwnerOrRole(1, types.ROLE_STAFF, 7, types.AuthorizerRoles...))
	assert.NoError(t, AuthorizeOwnerOrRole(1, types.ROLE_ADMIN, 7, types.AuthorizerRoles...))
	assert.ErrorIs(t, AuthorizeOwnerOrRole(1, types.ROLE_CUSTOMER, 7, types.AuthorizerRoles...), ErrForbidden)
}

func TestMapReservation(t *testing.T) {
	tableId := uint(3)
	r := models.Reservation{
		ID:        11,
		Date:      "2025-06-01",
		Time:      "19:00",
		Duration:  90,
		PartySize: 4,
		Status:    string(types.RESERVATION_CONFIRMED),
		UserID:    7,
		TableID:   &tableId,
	}
	out := MapReservation(&r)
	assert.Equal(t, uint(11), out.ID)
	assert.Equal(t, "20:30", out.EndTime)
	assert.Equal(t, &tableId, out.TableID)

	// a reservation without an explicit duration reports the house default
	r.Duration = 0
	out = MapReservation(&r)
	assert.Equal(t, "21:00", out.EndTime)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)
	assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
