package notifications

import (
	"context"
	"fmt"
	"strings"

	"leavehub/internal/domain/leave"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Enqueuer hands delivery off to the background worker so the triggering
// request never waits on SMTP.
type Enqueuer interface {
	Enqueue(jobType string, run func(context.Context) (any, error))
}

const JobLeaveEmail = "leave_email"

type Service struct {
	Mailer Mailer
	Jobs   Enqueuer
	From   string
}

func NewService(mailer Mailer, jobs Enqueuer, from string) *Service {
	return &Service{Mailer: mailer, Jobs: jobs, From: from}
}

func (s *Service) LeaveRequested(req leave.Request) {
	s.send(req.UserEmail, "Leave Request Submitted",
		fmt.Sprintf("Your leave request from %s to %s has been submitted and is pending approval.",
			req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02")))
}

func (s *Service) LeaveDecided(req leave.Request, notes string) {
	subject := fmt.Sprintf("Leave Request %s", req.Status)
	body := notes
	if body == "" {
		body = fmt.Sprintf("Your leave request has been %s.", strings.ToLower(req.Status))
	}
	s.send(req.UserEmail, subject, body)
}

func (s *Service) send(to, subject, body string) {
	if s == nil || s.Mailer == nil || strings.TrimSpace(to) == "" {
		return
	}
	s.Jobs.Enqueue(JobLeaveEmail, func(ctx context.Context) (any, error) {
		err := s.Mailer.Send(ctx, s.From, to, subject, body)
		return map[string]any{"to": to, "subject": subject}, err
	})
}
