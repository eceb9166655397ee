package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"rms/src/config"
	"rms/src/db"
	"rms/src/lib"
	"rms/src/lib/mailer"
	"rms/src/models"
	"rms/src/types"
	"rms/src/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ReservationsTopic = "reservations"

func reservationCandidate(r *models.Reservation) validation.Candidate {
	c := validation.Candidate{
		"party_size": r.PartySize,
	}
	if r.Date != "" {
		c["date"] = r.Date
	}
	if r.Time != "" {
		c["time"] = r.Time
	}
	return c
}

// ValidateReservation runs the full reservation rule set over the merged
// record and reports every violation at once.
func ValidateReservation(r *models.Reservation) error {
	cv := validation.NewComposite(validation.ReservationRules()...)
	result := cv.Validate(context.Background(), reservationCandidate(r))
	if !result.Valid {
		return &ValidationError{Messages: result.Errors}
	}
	return nil
}

// CreateReservation books a pending slot for the account's owner. The
// contact details always come from the account row, never from the body.
func CreateReservation(ownerId uint, body *types.CreateReservationRequestBody) (*models.Reservation, error) {
	var reservation models.Reservation
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, ownerId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("account: %w", ErrNotFound)
			}
			return err
		}
		reservation = models.Reservation{
			CustomerName:  user.Name,
			CustomerEmail: user.Email,
			Date:          body.Date,
			Time:          body.Time,
			Duration:      DurationOrDefault(body.Duration),
			PartySize:     body.PartySize,
			Notes:         body.Notes,
			Status:        string(types.RESERVATION_PENDING),
			UserID:        user.ID,
		}
		if err := ValidateReservation(&reservation); err != nil {
			return err
		}
		var dupes int64
		err := tx.Model(&models.Reservation{}).
			Where("user_id = ? AND date = ? AND time = ?", user.ID, body.Date, body.Time).
			Where("status IN ?", types.ActiveReservationStatuses).
			Count(&dupes).Error
		if err != nil {
			return err
		}
		if dupes > 0 {
			return fmt.Errorf("you already hold a reservation for this slot: %w", ErrConflict)
		}
		return tx.Create(&reservation).Error
	})
	if err != nil {
		return nil, err
	}
	go NotifyReservation(&reservation, "Reservation received",
		fmt.Sprintf("We received your reservation for %d on %s at %s. You will hear from us once a table is assigned.", reservation.PartySize, reservation.Date, reservation.Time))
	return &reservation, nil
}

// ApproveReservation assigns a table and confirms a pending reservation.
// The table row is locked for the duration of the transaction so two
// concurrent approvals cannot both pass the conflict scan and seat the same
// table.
func ApproveReservation(id uint, tableId uint) (*models.Reservation, error) {
	var reservation models.Reservation
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		var table models.DiningTable
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, tableId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("table: %w", ErrNotFound)
			}
			return err
		}
		if err := tx.First(&reservation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reservation: %w", ErrNotFound)
			}
			return err
		}
		if reservation.Status != string(types.RESERVATION_PENDING) {
			return fmt.Errorf("reservation is already %s: %w", reservation.Status, ErrConflict)
		}
		if !table.Available {
			return fmt.Errorf("table %d is out of service: %w", table.Number, ErrBadRequest)
		}
		if int(table.Capacity) < reservation.PartySize {
			return fmt.Errorf("table %d seats %d, party is %d: %w", table.Number, table.Capacity, reservation.PartySize, ErrBadRequest)
		}
		startMinute, err := ParseClock(reservation.Time)
		if err != nil {
			return err
		}
		duration := reservation.Duration
		conflicts, err := FindConflictingTableIDs(tx, reservation.Date, startMinute, DurationOrDefault(&duration), reservation.ID)
		if err != nil {
			return err
		}
		if conflicts[table.ID] {
			return fmt.Errorf("table %d is already booked for this slot: %w", table.Number, ErrConflict)
		}
		reservation.TableID = &table.ID
		reservation.Status = string(types.RESERVATION_CONFIRMED)
		reservation.CheckinCode = uuid.NewString()
		return tx.Save(&reservation).Error
	})
	if err != nil {
		return nil, err
	}
	go NotifyReservation(&reservation, "Reservation confirmed",
		fmt.Sprintf("Your reservation for %d on %s at %s is confirmed. Show your check-in code on arrival.", reservation.PartySize, reservation.Date, reservation.Time))
	go ScheduleCompletion(&reservation)
	return &reservation, nil
}

// RejectReservation declines a pending reservation. Anything past pending
// has already been decided and cannot be rejected.
func RejectReservation(id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reservation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reservation: %w", ErrNotFound)
			}
			return err
		}
		if reservation.Status != string(types.RESERVATION_PENDING) {
			return fmt.Errorf("reservation is already %s: %w", reservation.Status, ErrConflict)
		}
		reservation.Status = string(types.RESERVATION_CANCELED)
		return tx.Save(&reservation).Error
	})
	if err != nil {
		return nil, err
	}
	go NotifyReservation(&reservation, "Reservation declined",
		fmt.Sprintf("We could not accommodate your reservation for %s at %s.", reservation.Date, reservation.Time))
	return &reservation, nil
}

// UpdateReservation applies a partial edit on behalf of the owner or an
// authorizer. The merged record is re-validated in full, and a slot change
// re-runs the duplicate and table conflict checks with the reservation
// excluded from its own scan.
func UpdateReservation(id uint, requesterId uint, requesterRole string, body *types.UpdateReservationRequestBody) (*models.Reservation, error) {
	var reservation models.Reservation
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reservation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reservation: %w", ErrNotFound)
			}
			return err
		}
		if err := AuthorizeOwnerOrRole(requesterId, requesterRole, reservation.UserID, types.AuthorizerRoles...); err != nil {
			return err
		}
		status := types.ReservationStatus(reservation.Status)
		if status == types.RESERVATION_CANCELED || status == types.RESERVATION_COMPLETED {
			return fmt.Errorf("cannot modify a %s reservation: %w", reservation.Status, ErrConflict)
		}
		slotChanged := false
		if body.Date != nil && *body.Date != reservation.Date {
			reservation.Date = *body.Date
			slotChanged = true
		}
		if body.Time != nil && *body.Time != reservation.Time {
			reservation.Time = *body.Time
			slotChanged = true
		}
		if body.Duration != nil && *body.Duration != reservation.Duration {
			reservation.Duration = DurationOrDefault(body.Duration)
			slotChanged = true
		}
		if body.PartySize != nil {
			reservation.PartySize = *body.PartySize
		}
		if body.Notes != nil {
			reservation.Notes = *body.Notes
		}
		if err := ValidateReservation(&reservation); err != nil {
			return err
		}
		// a confirmed reservation keeps its table, so the party must still
		// fit after the edit
		if reservation.TableID != nil && body.PartySize != nil {
			var table models.DiningTable
			if err := tx.First(&table, *reservation.TableID).Error; err != nil {
				return err
			}
			if int(table.Capacity) < reservation.PartySize {
				return fmt.Errorf("table %d seats %d, party is %d: %w", table.Number, table.Capacity, reservation.PartySize, ErrBadRequest)
			}
		}
		if slotChanged {
			var dupes int64
			err := tx.Model(&models.Reservation{}).
				Where("user_id = ? AND date = ? AND time = ?", reservation.UserID, reservation.Date, reservation.Time).
				Where("status IN ?", types.ActiveReservationStatuses).
				Where("id <> ?", reservation.ID).
				Count(&dupes).Error
			if err != nil {
				return err
			}
			if dupes > 0 {
				return fmt.Errorf("you already hold a reservation for this slot: %w", ErrConflict)
			}
			if reservation.TableID != nil {
				startMinute, err := ParseClock(reservation.Time)
				if err != nil {
					return err
				}
				duration := reservation.Duration
				conflicts, err := FindConflictingTableIDs(tx, reservation.Date, startMinute, DurationOrDefault(&duration), reservation.ID)
				if err != nil {
					return err
				}
				if conflicts[*reservation.TableID] {
					return fmt.Errorf("the assigned table is not free for the new slot: %w", ErrConflict)
				}
			}
		}
		return tx.Save(&reservation).Error
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// CancelReservation moves a pending or confirmed reservation to cancelled.
// Cancelling twice, or cancelling after completion, is a conflict.
func CancelReservation(id uint, requesterId uint, requesterRole string) (*models.Reservation, error) {
	var reservation models.Reservation
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reservation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reservation: %w", ErrNotFound)
			}
			return err
		}
		if err := AuthorizeOwnerOrRole(requesterId, requesterRole, reservation.UserID, types.AuthorizerRoles...); err != nil {
			return err
		}
		status := types.ReservationStatus(reservation.Status)
		if status == types.RESERVATION_CANCELED {
			return fmt.Errorf("reservation is already cancelled: %w", ErrConflict)
		}
		if status == types.RESERVATION_COMPLETED {
			return fmt.Errorf("cannot cancel a completed reservation: %w", ErrConflict)
		}
		reservation.Status = string(types.RESERVATION_CANCELED)
		return tx.Save(&reservation).Error
	})
	if err != nil {
		return nil, err
	}
	go NotifyReservation(&reservation, "Reservation cancelled",
		fmt.Sprintf("Your reservation for %s at %s has been cancelled.", reservation.Date, reservation.Time))
	return &reservation, nil
}

// DeleteReservation removes the record entirely. Administrative use only;
// cancellation is the customer-facing path.
func DeleteReservation(id uint) error {
	d := db.GetDb()
	result := d.Unscoped().Delete(&models.Reservation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("reservation: %w", ErrNotFound)
	}
	return nil
}

// NotifyReservation queues a status email for the reservation holder and
// mirrors the change onto the reservations topic. Failures are logged and
// never surface to the request path.
func NotifyReservation(r *models.Reservation, subject, message string) {
	if r.CustomerEmail != "" {
		err := mailer.NewMailerMessage(&lib.SendMailInput{
			To:      []string{r.CustomerEmail},
			Subject: subject,
			Body:    message,
		})
		if err != nil {
			log.Printf("[notify] mail for reservation %d: %s\n", r.ID, err.Error())
		}
	}
	payload, err := json.Marshal(MapReservation(r))
	if err != nil {
		return
	}
	if config.API_ENV == string(types.Local) {
		if err := lib.KafkaProduceMessage("rms-api", lib.WithSuffix(ReservationsTopic), payload); err != nil {
			log.Printf("[notify] broker for reservation %d: %s\n", r.ID, err.Error())
		}
		return
	}
	if err := lib.SNSPublishMessage(lib.WithSuffix(ReservationsTopic), string(payload)); err != nil {
		log.Printf("[notify] topic for reservation %d: %s\n", r.ID, err.Error())
	}
}

// ScheduleCompletion enqueues the job that marks a confirmed reservation
// completed once its slot has fully elapsed.
func ScheduleCompletion(r *models.Reservation) {
	start, err := SlotStart(r.Date, r.Time)
	if err != nil {
		log.Printf("[scheduler] reservation %d: %s\n", r.ID, err.Error())
		return
	}
	duration := r.Duration
	runsAt := start.Add(time.Duration(DurationOrDefault(&duration)) * time.Minute)
	task := models.JobTask{
		Name:       fmt.Sprintf("reservation-%d-complete", r.ID),
		JobType:    "reservation.complete",
		RunsAt:     runsAt,
		PayloadID:  fmt.Sprint(r.ID),
		Payload:    types.JSONB{"reservationId": r.ID, "producerClientId": "rms-api"},
		Source:     "reservations",
		SourceType: "reservation",
		Topic:      lib.WithSuffix(ReservationsTopic),
	}
	if _, err := (&models.JobTask{}).CreateAndEnqueueJobTask(task); err != nil {
		log.Printf("[scheduler] reservation %d: %s\n", r.ID, err.Error())
	}
}
