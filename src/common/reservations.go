package common

import (
	"encoding/json"
	"log"
	"time"

	"rms/src/config"
	"rms/src/db"
	awslib "rms/src/lib/aws"
	"rms/src/models"
	"rms/src/types"

	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

func completeReservation(reservationId uint, jobId string) {
	go func() {
		db := db.GetDb()
		err := db.Transaction(func(tx *gorm.DB) error {
			var reservation models.Reservation
			err := tx.
				Where(&models.Reservation{ID: reservationId}).
				First(&reservation).
				Error
			if err != nil {
				return err
			}
			// only a confirmed reservation rolls over to completed; a
			// cancellation that raced the schedule wins
			if reservation.Status != string(types.RESERVATION_CONFIRMED) {
				return nil
			}
			return tx.
				Model(&models.Reservation{}).
				Where(&models.Reservation{ID: reservationId}).
				Update("status", types.RESERVATION_COMPLETED).
				Error
		})
		if err != nil {
			log.Printf("Error updating reservation status: %s\n", err.Error())
		}
	}()

	if jobId == "" {
		return
	}
	go func() {
		db := db.GetDb()
		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.
				Model(&models.JobTask{}).
				Where("payload ->> 'JobID' = ?", jobId).
				Update("status", "done").
				Error
		})
		if err != nil {
			log.Printf("Error updating job status: %s\n", err.Error())
		}
	}()
}

// KafkaReservationTasksConsumer handles completion tasks emitted by the
// local scheduler onto the reservations topic.
func KafkaReservationTasksConsumer(spayload string) {
	if !gjson.Valid(spayload) {
		log.Println("Received invalid json body. Aborting")
		return
	}
	id := gjson.Get(spayload, "reservationId")
	if !id.Exists() {
		return
	}
	jobId := gjson.Get(spayload, "JobID").String()
	completeReservation(uint(id.Uint()), jobId)
}

// ReservationTasksConsumer drains the deployed completion queue, where
// EventBridge delivers via SNS and the payload arrives wrapped in a
// notification envelope.
func ReservationTasksConsumer() {
	c := awslib.NewSQSConsumer("ReservationTasks", func(body string) {
		if !gjson.Valid(body) {
			log.Println("[ReservationTasks]: Received invalid json body. Aborting")
			return
		}
		var payload types.JSONB
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			log.Printf("Error deserializing JSON: %s\n", err.Error())
			return
		}
		message, ok := payload["Message"].(string)
		if !ok {
			return
		}
		var msg types.JSONB
		json.Unmarshal([]byte(message), &msg)
		id, ok := msg["reservationId"].(float64)
		if !ok {
			return
		}
		jobId, _ := msg["JobID"].(string)
		log.Printf("[ReservationTasks]: completing reservation %d", uint(id))
		completeReservation(uint(id), jobId)
	})
	c.Listen()
}

// ExpireStalePendingReservations cancels pending reservations whose slot
// has already started without ever being approved. Runs on a cron.
func ExpireStalePendingReservations() {
	db := db.GetDb()
	now := time.Now()
	today := now.Format(config.DATE_PARSE_FORMAT)
	clock := now.Format(config.TIME_PARSE_FORMAT)
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Reservation{}).
			Where("status = ?", types.RESERVATION_PENDING).
			Where("date < ? OR (date = ? AND time < ?)", today, today, clock).
			Update("status", types.RESERVATION_CANCELED).
			Error
	})
	if err != nil {
		log.Printf("Error while expiring stale reservations: %s\n", err.Error())
	}
}
