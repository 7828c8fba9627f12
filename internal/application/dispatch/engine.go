package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/expo-push-api/internal/config"
	"github.com/expo-push-api/internal/domain"
	"github.com/expo-push-api/internal/infrastructure/expo"
	"github.com/expo-push-api/internal/infrastructure/metrics"
	"github.com/expo-push-api/internal/pkg/id"
)

type deviceStore interface {
	List(ctx context.Context) ([]domain.Device, error)
	DeleteByToken(ctx context.Context, token string) error
}

type gateway interface {
	Send(ctx context.Context, msgs []expo.Message) ([]expo.Ticket, error)
}

type reportArchive interface {
	Save(ctx context.Context, r *domain.DispatchReport) (string, error)
}

// entry keeps a message paired with its device so tickets can be matched by position.
type entry struct {
	device domain.Device
	msg    expo.Message
}

type Engine struct {
	devices   deviceStore
	gateway   gateway
	batchSize int
	metrics   *metrics.Metrics
	archive   reportArchive
	log       *slog.Logger
}

type Option func(*Engine)

func WithMetrics(m *metrics.Metrics) Option { return func(e *Engine) { e.metrics = m } }

// WithArchive stores every report after the fan-out completes.
func WithArchive(a reportArchive) Option { return func(e *Engine) { e.archive = a } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

func NewEngine(devices deviceStore, gw gateway, batchSize int, opts ...Option) *Engine {
	if batchSize < 1 || batchSize > config.MaxExpoBatchSize {
		batchSize = config.MaxExpoBatchSize
	}
	e := &Engine{devices: devices, gateway: gw, batchSize: batchSize, log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dispatch sends n to every registered device. Per-message and per-batch
// failures are absorbed into the report. An error is returned only when the
// device list cannot be read or every batch failed to reach the gateway.
func (e *Engine) Dispatch(ctx context.Context, n *domain.Notification) (*domain.DispatchReport, error) {
	report := &domain.DispatchReport{
		ReportID:       id.New(),
		NotificationID: n.NotificationID,
		StartedAt:      time.Now().UTC(),
	}
	log := e.log.With("notification_id", n.NotificationID, "report_id", report.ReportID)

	devices, err := e.devices.List(ctx)
	if err != nil {
		err = fmt.Errorf("%w: load devices: %v", domain.ErrDispatchTransport, err)
		e.finish(ctx, log, report, err)
		return report, err
	}
	report.Devices = len(devices)

	entries := make([]entry, 0, len(devices))
	for _, d := range devices {
		if !ValidToken(d.Token) {
			report.Skipped++
			log.Warn("skipping malformed push token", "device_id", d.DeviceID)
			continue
		}
		entries = append(entries, entry{device: d, msg: buildMessage(d, n)})
	}

	for start := 0; start < len(entries); start += e.batchSize {
		end := min(start+e.batchSize, len(entries))
		e.sendBatch(ctx, log, report, entries[start:end])
	}

	if report.Batches > 0 && report.FailedBatches == report.Batches {
		err = fmt.Errorf("%w: all %d batches failed", domain.ErrDispatchTransport, report.Batches)
	}
	e.finish(ctx, log, report, err)
	return report, err
}

func (e *Engine) sendBatch(ctx context.Context, log *slog.Logger, report *domain.DispatchReport, batch []entry) {
	report.Batches++
	msgs := make([]expo.Message, len(batch))
	for i, ent := range batch {
		msgs[i] = ent.msg
	}

	start := time.Now()
	tickets, err := e.gateway.Send(ctx, msgs)
	e.metrics.Batch(time.Since(start), err)
	if err != nil {
		report.FailedBatches++
		e.metrics.Messages(metrics.OutcomeFailed, len(batch))
		log.Error("push batch failed", "batch", report.Batches, "size", len(batch), "error", err)
		return
	}
	if len(tickets) != len(batch) {
		log.Warn("ticket count does not match batch size", "batch", report.Batches, "size", len(batch), "tickets", len(tickets))
	}

	for i := 0; i < min(len(tickets), len(batch)); i++ {
		t, d := tickets[i], batch[i].device
		if t.Status == expo.TicketOK {
			report.Accepted++
			continue
		}
		report.Rejected++
		code := ""
		if t.Details != nil {
			code = t.Details.Error
		}
		log.Warn("push ticket rejected", "device_id", d.DeviceID, "code", code, "message", t.Message)

		if !t.DeviceNotRegistered() {
			continue
		}
		if err := e.devices.DeleteByToken(ctx, d.Token); err != nil {
			report.PruneFailures++
			e.metrics.PruneFailed()
			log.Error("prune failed", "device_id", d.DeviceID, "error", fmt.Errorf("%w: %v", domain.ErrPrune, err))
			continue
		}
		report.Pruned++
		e.metrics.Pruned()
		log.Info("pruned unregistered device", "device_id", d.DeviceID)
	}
}

func (e *Engine) finish(ctx context.Context, log *slog.Logger, report *domain.DispatchReport, err error) {
	report.FinishedAt = time.Now().UTC()
	e.metrics.Messages(metrics.OutcomeAccepted, report.Accepted)
	e.metrics.Messages(metrics.OutcomeRejected, report.Rejected)
	e.metrics.Messages(metrics.OutcomeSkipped, report.Skipped)
	e.metrics.Dispatch(err)

	attrs := []any{
		"devices", report.Devices,
		"skipped", report.Skipped,
		"batches", report.Batches,
		"failed_batches", report.FailedBatches,
		"accepted", report.Accepted,
		"rejected", report.Rejected,
		"pruned", report.Pruned,
		"prune_failures", report.PruneFailures,
		"duration", report.FinishedAt.Sub(report.StartedAt),
	}
	if err != nil {
		log.Error("dispatch finished with error", append(attrs, "error", err)...)
	} else {
		log.Info("dispatch finished", attrs...)
	}

	if e.archive == nil {
		return
	}
	loc, aerr := e.archive.Save(ctx, report)
	if aerr != nil {
		log.Warn("archive dispatch report", "error", aerr)
		return
	}
	log.Debug("dispatch report archived", "location", loc)
}
