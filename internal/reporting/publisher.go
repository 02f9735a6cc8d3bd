package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/angelmondragon/packfinderz-simulator/internal/simulation"
	"github.com/angelmondragon/packfinderz-simulator/pkg/logger"
	"github.com/angelmondragon/packfinderz-simulator/pkg/money"
)

const (
	defaultPublishTimeout = 15 * time.Second

	eventDaySummary   = "simulation.day_summary"
	eventRunCompleted = "simulation.run_completed"
)

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// DaySummaryEvent is the wire payload emitted once per simulated day.
type DaySummaryEvent struct {
	RunID    string                `json:"run_id"`
	Scenario string                `json:"scenario"`
	DayIndex int                   `json:"day_index"`
	Summary  simulation.DaySummary `json:"summary"`
}

// RunCompletedEvent is the terminal envelope emitted after all days publish.
type RunCompletedEvent struct {
	RunID      string    `json:"run_id"`
	Scenario   string    `json:"scenario"`
	Seed       int64     `json:"seed"`
	StartDate  time.Time `json:"start_date"`
	Days       int       `json:"days"`
	Population int       `json:"population"`
}

// Publisher emits run output onto the summaries topic.
type Publisher struct {
	pub  publisher
	logg *logger.Logger
}

// NewPublisher wraps the provided Pub/Sub publisher handle.
func NewPublisher(pub *gcppubsub.Publisher, logg *logger.Logger) (*Publisher, error) {
	if pub == nil {
		return nil, errors.New("summaries publisher is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Publisher{pub: &gcpPublisher{Publisher: pub}, logg: logg}, nil
}

// PublishRun emits one message per day summary followed by a run-completed
// envelope. Messages carry run/scenario attributes so consumers can filter
// without decoding payloads.
func (p *Publisher) PublishRun(ctx context.Context, scenario string, result *simulation.RunResult) error {
	if result == nil {
		return errors.New("run result is required")
	}

	ctx = p.logg.WithRunID(ctx, result.RunID)
	for i, day := range result.Days {
		event := DaySummaryEvent{
			RunID:    result.RunID,
			Scenario: scenario,
			DayIndex: i,
			Summary:  roundSummary(day.Summary),
		}
		attrs := map[string]string{
			"event":     eventDaySummary,
			"run_id":    result.RunID,
			"scenario":  scenario,
			"day_index": strconv.Itoa(i),
		}
		if err := p.publish(ctx, event, attrs); err != nil {
			return fmt.Errorf("publishing day %d summary: %w", i, err)
		}
	}

	completed := RunCompletedEvent{
		RunID:      result.RunID,
		Scenario:   scenario,
		Seed:       result.Seed,
		StartDate:  result.StartDate,
		Days:       len(result.Days),
		Population: len(result.Population),
	}
	attrs := map[string]string{
		"event":    eventRunCompleted,
		"run_id":   result.RunID,
		"scenario": scenario,
	}
	if err := p.publish(ctx, completed, attrs); err != nil {
		return fmt.Errorf("publishing run completion: %w", err)
	}

	p.logg.Info(ctx, "run summaries published")
	return nil
}

// roundSummary snaps money fields to cents for the wire. The engine keeps
// full float precision internally so reruns stay bit-identical.
func roundSummary(s simulation.DaySummary) simulation.DaySummary {
	s.NetRevenue = money.RoundCents(s.NetRevenue)
	s.DiscountTotal = money.RoundCents(s.DiscountTotal)
	if s.GrossMargin != nil {
		margin := money.RoundCents(*s.GrossMargin)
		s.GrossMargin = &margin
	}
	s.AvgOrderValue = money.RoundCents(s.AvgOrderValue)
	return s
}

func (p *Publisher) publish(ctx context.Context, payload any, attrs map[string]string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()

	result := p.pub.Publish(publishCtx, &gcppubsub.Message{
		Data:       data,
		Attributes: attrs,
	})
	if _, err := result.Get(publishCtx); err != nil {
		return err
	}
	return nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*gcppubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result not available")
	}
	return r.PublishResult.Get(ctx)
}
