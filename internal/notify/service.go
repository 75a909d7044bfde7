package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"facilitydesk/backend/internal/config"
	"facilitydesk/backend/internal/logger"
	"facilitydesk/backend/internal/mailer"
	"facilitydesk/backend/internal/metrics"
	"facilitydesk/backend/internal/models"
	"facilitydesk/backend/internal/storage"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Service resolves the recipients of an event and delivers to each of them.
type Service struct {
	Storage     storage.Storage
	Mailer      mailer.Sender
	Live        Publisher // optional
	AppURL      string
	Concurrency int
}

func NewService(s storage.Storage, m mailer.Sender, live Publisher, appURL string) *Service {
	return &Service{
		Storage:     s,
		Mailer:      m,
		Live:        live,
		AppURL:      appURL,
		Concurrency: config.EmailConcurrency,
	}
}

// pass is one recipient group sharing a template, link and wording.
type pass struct {
	name       string
	recipients []models.User
	templateID uint
	creatorID  uint
	link       string
	altText    func(u models.User) string
	subject    string
	body       func(u models.User) string
}

// Process handles one event. Every pass is attempted; the returned error
// joins whatever failed.
func (s *Service) Process(ctx context.Context, ev Event) error {
	log := logger.Log.WithFields(logrus.Fields{
		"event_id":  ev.ID,
		"kind":      ev.Kind,
		"entity_id": ev.EntityID,
	})

	var err error
	switch ev.Kind {
	case JobSlipCreated:
		err = s.jobSlipCreated(ctx, ev)
	case JanitorialCreated:
		err = s.janitorialCreated(ctx, ev)
	default:
		err = fmt.Errorf("notify: unknown event kind %q", ev.Kind)
	}

	if err != nil {
		log.WithError(err).Error("notification fan-out incomplete")
		return err
	}
	log.Debug("notification fan-out complete")
	return nil
}

func (s *Service) jobSlipCreated(ctx context.Context, ev Event) error {
	kind := string(ev.Kind)
	slip, err := s.Storage.GetJobSlip(ctx, ev.EntityID)
	if err != nil {
		metrics.FanoutFailures.WithLabelValues(kind, "resolve").Inc()
		return fmt.Errorf("load job slip %d: %w", ev.EntityID, err)
	}
	tpl, creator, err := s.templateAndCreator(ctx, config.TemplateJobSlipCreated, ev)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("/customer-relation/job-slip/view/%d", slip.ID)
	url := s.AppURL + link
	body := func(u models.User) string {
		return fmt.Sprintf("Hello %s,\n\nA new jobslip (%s) has been created by %s. Please review it at the following link:\n\n%s\n\nThank you.",
			u.Name, slip.JobID, creator.Name, url)
	}
	base := pass{templateID: tpl.ID, creatorID: creator.ID, link: link, body: body}

	var errs []error
	resolveFailed := func(group string, err error) {
		metrics.FanoutFailures.WithLabelValues(kind, "resolve").Inc()
		errs = append(errs, fmt.Errorf("resolve %s: %w", group, err))
	}

	// Technicians listed on the slip.
	if techs, err := s.Storage.UsersByIDs(ctx, slip.AttendedBy); err != nil {
		resolveFailed("technicians", err)
	} else {
		p := base
		p.name = "technicians"
		p.recipients = techs
		p.subject = "New Jobslip Created: " + slip.JobID
		p.altText = func(u models.User) string {
			return fmt.Sprintf("Hello %s, Jobslip %s has been created by %s.", u.Name, slip.JobID, creator.Name)
		}
		errs = append(errs, s.deliver(ctx, kind, p))
	}

	// At most one bookkeeper.
	bookkeeper, err := s.Storage.FirstUserByRole(ctx, config.RoleBookkeeper)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		resolveFailed("bookkeeper", err)
	default:
		p := base
		p.name = "bookkeeper"
		p.recipients = []models.User{*bookkeeper}
		p.subject = "New Jobslip Created: " + slip.JobID
		p.altText = func(u models.User) string {
			return fmt.Sprintf("Hello %s, Jobslip %s has been created.", u.Name, slip.JobID)
		}
		errs = append(errs, s.deliver(ctx, kind, p))
	}

	// Managers of the owning department.
	if managers, err := s.Storage.UsersByRoleInDepartment(ctx, config.RoleManager, slip.DepartmentID); err != nil {
		resolveFailed("managers", err)
	} else {
		p := base
		p.name = "managers"
		p.recipients = managers
		p.subject = "New Jobslip Created in Your Department: " + slip.JobID
		p.altText = func(u models.User) string {
			return fmt.Sprintf("Hello %s, Jobslip %s has been created in your department.", u.Name, slip.JobID)
		}
		errs = append(errs, s.deliver(ctx, kind, p))
	}

	return errors.Join(errs...)
}

func (s *Service) janitorialCreated(ctx context.Context, ev Event) error {
	kind := string(ev.Kind)
	report, err := s.Storage.GetReport(ctx, ev.EntityID)
	if err != nil {
		metrics.FanoutFailures.WithLabelValues(kind, "resolve").Inc()
		return fmt.Errorf("load janitorial report %d: %w", ev.EntityID, err)
	}
	tpl, creator, err := s.templateAndCreator(ctx, config.TemplateJanitorialCreated, ev)
	if err != nil {
		return err
	}

	recipients, err := s.janitorialRecipients(ctx)
	if err != nil {
		metrics.FanoutFailures.WithLabelValues(kind, "resolve").Inc()
		return err
	}

	link := fmt.Sprintf("/janitorial/report/view/%d", report.ID)
	url := s.AppURL + link
	return s.deliver(ctx, kind, pass{
		name:       "staff",
		recipients: recipients,
		templateID: tpl.ID,
		creatorID:  creator.ID,
		link:       link,
		subject:    "New Janitorial Report Created",
		altText: func(u models.User) string {
			return fmt.Sprintf("Hello %s, Janitorial inspection report created by %s", u.Name, creator.Name)
		},
		body: func(u models.User) string {
			return fmt.Sprintf("Hello %s,\n\nA new janitorial inspection report has been created by %s. Please review it at the following link:\n\n%s\n\nThank you.",
				u.Name, creator.Name, url)
		},
	})
}

// janitorialRecipients is managers, then supervisors of the janitorial
// departments, then admins, each user listed once.
func (s *Service) janitorialRecipients(ctx context.Context) ([]models.User, error) {
	managers, err := s.Storage.UsersByRole(ctx, config.RoleManager)
	if err != nil {
		return nil, fmt.Errorf("resolve managers: %w", err)
	}
	supervisors, err := s.Storage.UsersByRoleInDepartmentNames(ctx, config.RoleSupervisor, config.JanitorialDepartments)
	if err != nil {
		return nil, fmt.Errorf("resolve supervisors: %w", err)
	}
	admins, err := s.Storage.UsersByRole(ctx, config.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("resolve admins: %w", err)
	}

	seen := make(map[uint]bool)
	var out []models.User
	for _, group := range [][]models.User{managers, supervisors, admins} {
		for _, u := range group {
			if !seen[u.ID] {
				seen[u.ID] = true
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (s *Service) templateAndCreator(ctx context.Context, template string, ev Event) (*models.NotificationTemplate, *models.User, error) {
	kind := string(ev.Kind)
	tpl, err := s.Storage.GetTemplateByName(ctx, template)
	if err != nil {
		metrics.FanoutFailures.WithLabelValues(kind, "resolve").Inc()
		return nil, nil, fmt.Errorf("notification template %q: %w", template, err)
	}
	creator, err := s.Storage.GetUser(ctx, ev.ActorID)
	if err != nil {
		metrics.FanoutFailures.WithLabelValues(kind, "resolve").Inc()
		return nil, nil, fmt.Errorf("creator %d: %w", ev.ActorID, err)
	}
	return tpl, creator, nil
}

// deliver writes one notification per recipient in a single insert, then
// emails every recipient concurrently and pushes the rows to live clients.
func (s *Service) deliver(ctx context.Context, kind string, p pass) error {
	if len(p.recipients) == 0 {
		return nil
	}

	rows := make([]models.Notification, len(p.recipients))
	for i, u := range p.recipients {
		rows[i] = models.Notification{
			TemplateID:  p.templateID,
			UserID:      u.ID,
			CreatedByID: p.creatorID,
			AltText:     p.altText(u),
			Link:        p.link,
		}
	}
	if err := s.Storage.CreateNotifications(ctx, rows); err != nil {
		metrics.FanoutFailures.WithLabelValues(kind, "notifications").Inc()
		return fmt.Errorf("%s: create notifications: %w", p.name, err)
	}
	metrics.NotificationsCreated.WithLabelValues(kind, p.name).Add(float64(len(rows)))

	var errs []error
	errs = append(errs, s.sendEmails(ctx, kind, p))

	if s.Live != nil {
		for _, n := range rows {
			if err := s.Live.Publish(ctx, n); err != nil {
				metrics.FanoutFailures.WithLabelValues(kind, "live").Inc()
				errs = append(errs, fmt.Errorf("%s: live push to user %d: %w", p.name, n.UserID, err))
				break
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Service) sendEmails(ctx context.Context, kind string, p pass) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	limit := s.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, u := range p.recipients {
		if u.Email == "" {
			metrics.EmailsSent.WithLabelValues(kind, "skipped").Inc()
			continue
		}
		msg := mailer.Message{
			ToName:  u.Name,
			ToEmail: u.Email,
			Subject: p.subject,
			Text:    p.body(u),
		}
		g.Go(func() error {
			if err := s.Mailer.Send(ctx, msg); err != nil {
				metrics.EmailsSent.WithLabelValues(kind, "failed").Inc()
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: email %s: %w", p.name, msg.ToEmail, err))
				mu.Unlock()
				return nil
			}
			metrics.EmailsSent.WithLabelValues(kind, "sent").Inc()
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
