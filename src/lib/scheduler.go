package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"rms/src/config"
	"rms/src/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsched "github.com/aws/aws-sdk-go-v2/service/scheduler"
	schedulerTypes "github.com/aws/aws-sdk-go-v2/service/scheduler/types"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

type Key string

const (
	varsKey Key = "vars"
)

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	scheduler = sched
	numJobs := len(sched.Jobs())
	log.Printf("Jobs in queue: %d\n", numJobs)
	return sched, nil
}

func CreateCronJob(handler any, duration time.Duration, args ...any) (*string, error) {
	sched, err := GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return nil, err
	}
	j, err := sched.NewJob(
		gocron.DurationJob(duration),
		gocron.NewTask(handler, args...),
	)
	if err != nil {
		return nil, err
	}
	id := j.ID().String()
	return &id, nil
}

type Scheduler interface {
	Name() string
	CreateScheduleWithStartDate(ctx context.Context, s time.Time, p types.JSONB) (*uuid.UUID, error)
}

// EventBridgeScheduler targets the SNS topic named in the context vars; the
// schedule deletes itself after firing.
type EventBridgeScheduler struct {
	inner *awsched.Client
}

func (e *EventBridgeScheduler) Name() string {
	return "EventBridge"
}

func (e *EventBridgeScheduler) CreateScheduleWithStartDate(ctx context.Context, s time.Time, p types.JSONB) (*uuid.UUID, error) {
	vars := ctx.Value(varsKey).(map[string]string)
	name := vars["name"]
	topic := vars["topic"]
	in := *e.inner
	bPayload, _ := json.Marshal(p)
	input := string(bPayload)
	sid := uuid.New()
	roleArn := os.Getenv("SCHEDULER_ROLE_ARN")
	topicArn := GetTopicArn(topic)
	sRunsAt := s.Format("2006-01-02T15:04:05")
	sched, err := in.CreateSchedule(context.TODO(), &awsched.CreateScheduleInput{
		Name:      aws.String(fmt.Sprintf("schedule_%s", name)),
		StartDate: aws.Time(s),
		Target: &schedulerTypes.Target{
			Arn:     aws.String(topicArn),
			RoleArn: aws.String(roleArn),
			Input:   aws.String(input),
			RetryPolicy: &schedulerTypes.RetryPolicy{
				MaximumRetryAttempts: aws.Int32(3),
			},
		},
		FlexibleTimeWindow:    &schedulerTypes.FlexibleTimeWindow{Mode: schedulerTypes.FlexibleTimeWindowModeOff},
		ScheduleExpression:    aws.String(fmt.Sprintf("at(%s)", sRunsAt)),
		ActionAfterCompletion: schedulerTypes.ActionAfterCompletionDelete,
	})
	if err != nil {
		log.Printf("Failed to create Schedule: %s\n", err.Error())
		return nil, err
	}
	log.Printf("Created schedule at: %s\n", *sched.ScheduleArn)
	return &sid, nil
}

type LocalScheduler struct {
	inner *gocron.Scheduler
}

func (l *LocalScheduler) Name() string {
	return "Local"
}
func (l *LocalScheduler) CreateScheduleWithStartDate(ctx context.Context, s time.Time, p types.JSONB) (*uuid.UUID, error) {
	in := *l.inner
	j, err := in.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(s)),
		gocron.NewTask(func(ctx context.Context, p types.JSONB) {
			log.Printf("[%s] Running scheduled task...\n", l.Name())
			KafkaTaskHandlerFunc(ctx, &p)
		}, ctx, p),
	)
	if err != nil {
		log.Printf("Error creating job: %s\n", err.Error())
		return nil, err
	}
	sRunsAt := s.Format(config.TIME_PARSE_FORMAT)
	log.Printf("[%s] New Job scheduled on: %s %s\n", l.Name(), j.ID().String(), sRunsAt)
	jid := j.ID()
	return &jid, nil
}

func NewAwsScheduler() *EventBridgeScheduler {
	inner := AWSGetSchedulerClient()
	s := EventBridgeScheduler{inner: inner}
	return &s
}

func NewLocalScheduler() *LocalScheduler {
	inner, _ := GetScheduler()
	s := LocalScheduler{inner: &inner}
	return &s
}

// CreateScheduler returns either an instance of LocalScheduler or EventBridgeScheduler based on the app environment value
func CreateScheduler() Scheduler {
	env := config.API_ENV
	if env == string(types.Production) || env == string(types.Staging) {
		ebs := NewAwsScheduler()
		return ebs
	}
	local := NewLocalScheduler()
	return local
}

// Wrapper for creating scheduled job based on the app environment. local will use the LocalScheduler otherwise will use AWS EventBridge Scheduler
func NewScheduledJob(startDate time.Time, vars map[string]string, p types.JSONB) (*uuid.UUID, error) {
	sch := CreateScheduler()
	ctx := context.Background()
	ctx = context.WithValue(ctx, varsKey, vars)
	log.Printf("Created scheduler with name: %s\n", sch.Name())

	sid, err := sch.CreateScheduleWithStartDate(ctx, startDate, p)
	if err != nil {
		return nil, err
	}
	return sid, nil
}

func KafkaTaskHandlerFunc(ctx context.Context, p *types.JSONB) {
	vars := ctx.Value(varsKey).(map[string]string)
	clientId := vars["clientId"]
	topic := vars["topic"]
	value, err := json.Marshal(p)
	if err != nil {
		log.Printf("Error encoding task payload: %s\n", err.Error())
		return
	}
	go KafkaProduceMessage(clientId, topic, value)
}
