package boot

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"rms/src/common"
	"rms/src/config"
	"rms/src/db"
	"rms/src/lib"
	awslib "rms/src/lib/aws"
	"rms/src/models"
	"rms/src/types"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.DiningTable{},
		&models.Reservation{},
		&models.MenuItem{},
		&models.PreOrder{},
		&models.PreOrderItem{},
		&models.Payment{},
		&models.Feedback{},
		&models.JobTask{},
		&models.Setting{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitBroker wires the message plumbing: completion tasks and, in local
// environments, the email queue both flow over the broker.
func InitBroker() {
	go RecoverQueuedJobs()
	go UpdateExpiredJobs()

	reservationsTopic := lib.WithSuffix("reservations")
	go lib.KafkaCreateTopics(reservationsTopic)
	go lib.KafkaSubscribe("reservation-tasks", []string{reservationsTopic}, common.KafkaReservationTasksConsumer)

	if config.API_ENV == string(types.Local) {
		go lib.KafkaSubscribe("emails", []string{lib.WithSuffix(os.Getenv("EMAIL_QUEUE"))}, common.KafkaEmailsToSendConsumer)
	} else {
		go common.EmailsToSendConsumer()
		go common.ReservationTasksConsumer()
		go func() {
			sub := awslib.NewSNSSubscriber(reservationsTopic)
			if sub == nil {
				return
			}
			if _, err := sub.Subscribe("sqs", os.Getenv("RESERVATION_TASKS_QUEUE_ARN")); err != nil {
				log.Printf("Error subscribing completion queue to topic: %s\n", err.Error())
			}
		}()
	}
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	id, err := lib.CreateCronJob(common.ExpireStalePendingReservations, 15*time.Minute)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	log.Printf("Job ID: %s\n", *id)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}

// RecoverQueuedJobs re-queues pending completion tasks that were lost when
// the process last stopped.
func RecoverQueuedJobs() error {
	sched, err := lib.GetScheduler()
	if err != nil {
		return err
	}
	db := db.GetDb()
	ss := db.Session(&gorm.Session{PrepareStmt: true})
	var jobTasks []models.JobTask
	today := time.Now()
	in1m := today.Add(1 * time.Minute)
	in3months := today.Add((24 * 30 * 3) * time.Hour)
	err = ss.
		Model(&models.JobTask{}).Select("id", "payload", "topic", "runs_at").
		Where(&models.JobTask{Status: "pending"}).
		Where("runs_at BETWEEN ? AND ?", in1m, in3months).
		Order("runs_at asc").
		Limit(100).
		Find(&jobTasks).
		Error
	if err != nil {
		log.Printf("Error retrieving jobs: %s\n", err.Error())
		return err
	}
	log.Printf("Found %d pending jobs", len(jobTasks))
	for _, jobTask := range jobTasks {
		log.Printf("Queueing: %s\n", jobTask.ID.String())
		jobDef := gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(jobTask.RunsAt))
		payload := jobTask.Payload
		topic := jobTask.Topic
		jt := gocron.NewTask(func() {
			log.Println("Running scheduled task")
			value, err := json.Marshal(payload)
			if err != nil {
				log.Printf("Error encoding payload: %s\n", err.Error())
				return
			}
			clientId, _ := payload["producerClientId"].(string)
			if err := lib.KafkaProduceMessage(clientId, topic, value); err != nil {
				log.Printf("Error on producing message: %s\n", err.Error())
			}
		})
		job, err := sched.NewJob(
			jobDef,
			jt,
		)
		if err != nil {
			log.Printf("Failed to schedule job [%s]. Skipping: %s\n", jobTask.ID.String(), err.Error())
			continue
		}
		log.Printf("Added job to scheduler: name=%s id=%s job=%s\n", jobTask.Name, jobTask.ID.String(), job.ID().String())
	}

	return nil
}

func UpdateExpiredJobs() {
	db := db.GetDb()
	err := db.
		Transaction(func(tx *gorm.DB) error {
			err := tx.Model(&models.JobTask{}).
				Where("status", "pending").
				Where("runs_at < ?", time.Now()).
				Update("status", "expired").Error
			if err != nil {
				return err
			}
			return nil
		})
	if err != nil {
		log.Printf("Error while processing expired jobs: %s\n", err.Error())
	}
}
