package utils

import (
	"errors"
	"testing"

	"rms/src/db"
	"rms/src/models"
	"rms/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestValidateReservation(t *testing.T) {
	t.Run("collects every violation", func(t *testing.T) {
		err := ValidateReservation(&models.Reservation{
			PartySize: 25,
		})
		assert.NotNil(t, err)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Messages, 3)
	})

	t.Run("accepts a valid record", func(t *testing.T) {
		err := ValidateReservation(&models.Reservation{
			Date:      "2030-06-01",
			Time:      "19:00",
			PartySize: 4,
		})
		assert.Nil(t, err)
	})
}

func TestCreateReservationUnknownAccount(t *testing.T) {
	gormDB, mock := newMockDB(t)
	db.NewDB(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}))
	mock.ExpectRollback()

	_, err := CreateReservation(42, &types.CreateReservationRequestBody{
		Date:      "2030-06-01",
		Time:      "19:00",
		PartySize: 4,
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateReservationDuplicateSlot(t *testing.T) {
	gormDB, mock := newMockDB(t)
	db.NewDB(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(42, "Test User", "someone@example.com"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := CreateReservation(42, &types.CreateReservationRequestBody{
		Date:      "2030-06-01",
		Time:      "19:00",
		PartySize: 4,
	})
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestApproveReservationRules(t *testing.T) {
	tableRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "number", "capacity", "available"}).
			AddRow(5, 5, 4, true)
	}

	t.Run("unknown table", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		db.NewDB(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "dining_tables"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := ApproveReservation(1, 99)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("already decided", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		db.NewDB(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "dining_tables"`).
			WillReturnRows(tableRow())
		mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "date", "time", "duration", "party_size", "status"}).
				AddRow(1, "2030-06-01", "19:00", 120, 4, "confirmed"))
		mock.ExpectRollback()

		_, err := ApproveReservation(1, 5)
		assert.True(t, errors.Is(err, ErrConflict))
	})

	t.Run("table out of service", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		db.NewDB(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "dining_tables"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "number", "capacity", "available"}).
				AddRow(5, 5, 4, false))
		mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "date", "time", "duration", "party_size", "status"}).
				AddRow(1, "2030-06-01", "19:00", 120, 4, "pending"))
		mock.ExpectRollback()

		_, err := ApproveReservation(1, 5)
		assert.True(t, errors.Is(err, ErrBadRequest))
	})

	t.Run("party larger than table", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		db.NewDB(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "dining_tables"`).
			WillReturnRows(tableRow())
		mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "date", "time", "duration", "party_size", "status"}).
				AddRow(1, "2030-06-01", "19:00", 120, 6, "pending"))
		mock.ExpectRollback()

		_, err := ApproveReservation(1, 5)
		assert.True(t, errors.Is(err, ErrBadRequest))
	})

	t.Run("slot already booked on the table", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		db.NewDB(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "dining_tables"`).
			WillReturnRows(tableRow())
		mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "date", "time", "duration", "party_size", "status"}).
				AddRow(1, "2030-06-01", "19:00", 120, 4, "pending"))
		mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "date", "time", "duration", "status", "table_id"}).
				AddRow(2, "2030-06-01", "20:00", 120, "confirmed", 5))
		mock.ExpectRollback()

		_, err := ApproveReservation(1, 5)
		assert.True(t, errors.Is(err, ErrConflict))
	})
}

func TestUpdateReservationRules(t *testing.T) {
	t.Run("party cannot outgrow the assigned table", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		db.NewDB(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "date", "time", "duration", "party_size", "status", "user_id", "table_id"}).
				AddRow(1, "2030-06-01", "19:00", 120, 4, "confirmed", 7, 3))
		mock.ExpectQuery(`SELECT (.+) FROM "dining_tables"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "number", "capacity", "available"}).
				AddRow(3, 2, 2, true))
		mock.ExpectRollback()

		ten := 10
		_, err := UpdateReservation(1, 7, types.ROLE_CUSTOMER, &types.UpdateReservationRequestBody{
			PartySize: &ten,
		})
		assert.True(t, errors.Is(err, ErrBadRequest))
	})
}

func TestCancelReservationRules(t *testing.T) {
	t.Run("strangers cannot cancel", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		db.NewDB(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "user_id"}).
				AddRow(1, "pending", 7))
		mock.ExpectRollback()

		_, err := CancelReservation(1, 2, types.ROLE_CUSTOMER)
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("cancelling twice conflicts", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		db.NewDB(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "user_id"}).
				AddRow(1, "cancelled", 7))
		mock.ExpectRollback()

		_, err := CancelReservation(1, 7, types.ROLE_CUSTOMER)
		assert.True(t, errors.Is(err, ErrConflict))
	})

	t.Run("completed reservations stay completed", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		db.NewDB(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "user_id"}).
				AddRow(1, "completed", 7))
		mock.ExpectRollback()

		_, err := CancelReservation(1, 7, types.ROLE_STAFF)
		assert.True(t, errors.Is(err, ErrConflict))
	})
}
