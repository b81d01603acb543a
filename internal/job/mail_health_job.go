package job

import (
	"context"

	"github.com/creativityhunt/creahunt/internal/service"
)

type MailHealthJob struct {
	sender service.EmailSender
}

func NewMailHealthJob(sender service.EmailSender) *MailHealthJob {
	return &MailHealthJob{sender: sender}
}

func (j *MailHealthJob) Name() string {
	return "mail_health"
}

func (j *MailHealthJob) Run(ctx context.Context) error {
	if j.sender == nil {
		return nil
	}
	return j.sender.VerifyConfig()
}
