package models

import (
	"log"
	"rms/src/db"
	"rms/src/lib"
	"rms/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobTask is the persisted form of a scheduled follow-up (for example
// completing a confirmed reservation once its slot has passed). Rows are
// recovered into the scheduler at boot.
type JobTask struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	Name       string      `json:"-"`
	JobType    string      `json:"-"`
	RunsAt     time.Time   `json:"-"`
	PayloadID  string      `json:"-"`
	Payload    types.JSONB `gorm:"type:jsonb" json:"-"`
	Source     string      `json:"-"`
	SourceType string      `json:"-"`
	Status     string      `gorm:"default:'pending'" json:"-"`
	Topic      string      `json:"-"`
}

func (jt *JobTask) CreateAndEnqueueJobTask(jobTask JobTask) (string, error) {
	var jobID string
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		vars := map[string]string{
			"name":     jobTask.Name,
			"topic":    jobTask.Topic,
			"clientId": jobTask.Payload["producerClientId"].(string),
		}
		sid, err := lib.NewScheduledJob(jobTask.RunsAt, vars, jobTask.Payload)
		if err != nil {
			log.Printf("Error scheduling job [%s]: %s\n", jobTask.Name, err.Error())
			return err
		}
		jobID = sid.String()
		jobTask.ID = *sid
		jobTask.Payload["JobID"] = jobID
		if err := tx.Create(&jobTask).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	log.Printf("Created schedule for job %s with name %s at %s\n", jobID, jobTask.Name, jobTask.RunsAt.Format(time.RFC3339))
	return jobID, nil
}
