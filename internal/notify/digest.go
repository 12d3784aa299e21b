package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"github.com/sebuszqo/FlexiFi/internal/finance/application"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	"github.com/sebuszqo/FlexiFi/internal/logging"
)

const (
	subjectBudgetDigest  = "Your FlexiFi budget update"
	templateBudgetDigest = "budget_digest.html"
)

type BudgetDigestData struct {
	UserName        string
	Today           string
	StartDate       string
	EndDate         string
	MonthlyBudget   string
	DaysLeft        int
	RemainingBudget string
	DailyAllowance  string
	TopCategory     string
	OverBudget      bool
}

func (d BudgetDigestData) TemplateFileName() string {
	return templateBudgetDigest
}

func (d BudgetDigestData) Subject() string {
	return subjectBudgetDigest
}

type ActiveBudgetLister interface {
	FindUsersWithActiveBudget(ctx context.Context, day time.Time) ([]string, error)
}

type Recipient struct {
	Email string
	Name  string
}

type RecipientLookup interface {
	Recipient(ctx context.Context, userID string) (*Recipient, error)
}

type FactsComposer interface {
	ComposeFacts(ctx context.Context, userID string, query application.AdviceQuery) (*advisory.Facts, error)
}

// DigestJob emails every user with an active budget window a summary of
// the days left and the daily allowance.
type DigestJob struct {
	budgets    ActiveBudgetLister
	recipients RecipientLookup
	facts      FactsComposer
	sender     EmailSender
	logger     logging.Logger
	now        func() time.Time
}

func NewDigestJob(budgets ActiveBudgetLister, recipients RecipientLookup, facts FactsComposer, sender EmailSender, logger logging.Logger) *DigestJob {
	return &DigestJob{
		budgets:    budgets,
		recipients: recipients,
		facts:      facts,
		sender:     sender,
		logger:     logger,
		now:        time.Now,
	}
}

// Run queues one digest per eligible user and returns how many were queued.
// A failure for one user is logged and does not stop the others.
func (j *DigestJob) Run(ctx context.Context) (int, error) {
	today := domain.DateOf(j.now())
	userIDs, err := j.budgets.FindUsersWithActiveBudget(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("could not list users with an active budget: %w", err)
	}

	queued := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return queued, err
		}
		if err := j.notify(ctx, userID, today); err != nil {
			j.logger.WithError(err).Warn("Skipping budget digest",
				logging.Field{Key: logging.FieldUserID, Value: userID},
				logging.Field{Key: logging.FieldJob, Value: "budget_digest"})
			continue
		}
		queued++
	}

	j.logger.Info("Budget digest queued",
		logging.Field{Key: logging.FieldJob, Value: "budget_digest"},
		logging.Field{Key: logging.FieldCount, Value: queued})
	return queued, nil
}

func (j *DigestJob) notify(ctx context.Context, userID string, today time.Time) error {
	facts, err := j.facts.ComposeFacts(ctx, userID, application.AdviceQuery{Today: today, Kind: advisory.KindBudget})
	if err != nil {
		return err
	}
	data, ok := DigestFromFacts(facts)
	if !ok {
		return fmt.Errorf("no budget projection for %s", facts.Today)
	}

	recipient, err := j.recipients.Recipient(ctx, userID)
	if err != nil {
		return fmt.Errorf("could not resolve recipient: %w", err)
	}
	data.UserName = recipient.Name
	j.sender.QueueEmail(recipient.Email, data)
	return nil
}

// DigestFromFacts fills the template data. It reports false when the facts
// carry no projection.
func DigestFromFacts(facts *advisory.Facts) (BudgetDigestData, bool) {
	if facts == nil || facts.Window == nil || facts.DaysLeft == nil || facts.RemainingBudget == nil || facts.DailyAllowance == nil {
		return BudgetDigestData{}, false
	}
	return BudgetDigestData{
		Today:           facts.Today,
		StartDate:       facts.Window.StartDate,
		EndDate:         facts.Window.EndDate,
		MonthlyBudget:   facts.Window.MonthlyBudget.StringFixed(2),
		DaysLeft:        *facts.DaysLeft,
		RemainingBudget: facts.RemainingBudget.StringFixed(2),
		DailyAllowance:  facts.DailyAllowance.StringFixed(2),
		TopCategory:     facts.TopExpenseCategory,
		OverBudget:      facts.RemainingBudget.IsNegative(),
	}, true
}
