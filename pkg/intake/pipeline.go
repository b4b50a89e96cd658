package intake

import (
	"context"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/tulsi/pkg/metrics"
	"github.com/Ramsey-B/tulsi/pkg/models"
	"github.com/Ramsey-B/tulsi/pkg/nakshatra"
	"github.com/Ramsey-B/tulsi/pkg/repositories"
	"github.com/Ramsey-B/tulsi/pkg/tracing"
)

// Outcome is the terminal state of one candidate. Every candidate resolves to
// exactly one outcome and causes exactly one successful side effect.
type Outcome string

const (
	OutcomeAccepted  Outcome = "ACCEPTED"
	OutcomeDuplicate Outcome = "DUPLICATE"
	OutcomeRejected  Outcome = "REJECTED"
)

// Candidate is one raw devotee submission, before any cleaning.
type Candidate struct {
	Name        string
	CountryCode string
	Phone       string
	Nakshatra   string
}

// Result is the terminal state of a processed candidate. Devotee is set only
// on OutcomeAccepted; FieldErrors only on OutcomeRejected.
type Result struct {
	Outcome     Outcome
	Devotee     *models.Devotee
	FieldErrors []FieldError
}

// DevoteeStore is the slice of devotee persistence the pipeline needs.
// Create must return repositories.ErrDevoteeExists when the storage
// uniqueness constraint fires, which is the race-safety backstop for
// concurrent inserts of the same identity.
type DevoteeStore interface {
	ExistsByIdentity(ctx context.Context, identity models.DevoteeIdentity, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, devotee *models.Devotee) (*models.Devotee, error)
}

// DuplicateAudit records candidates that collided with an existing devotee.
type DuplicateAudit interface {
	Insert(ctx context.Context, entry *models.DuplicateEntry) error
}

// InvalidAudit records candidates that failed validation.
type InvalidAudit interface {
	Insert(ctx context.Context, entry *models.InvalidEntry) error
}

// Pipeline runs each candidate through canonicalization, star resolution and
// duplicate detection. It is safe for concurrent use; race safety between the
// duplicate check and the insert is delegated to the storage constraint.
type Pipeline struct {
	canonicalizer *Canonicalizer
	devotees      DevoteeStore
	duplicates    DuplicateAudit
	invalids      InvalidAudit
	logger        ectologger.Logger
}

func NewPipeline(canonicalizer *Canonicalizer, devotees DevoteeStore, duplicates DuplicateAudit, invalids InvalidAudit, logger ectologger.Logger) *Pipeline {
	return &Pipeline{
		canonicalizer: canonicalizer,
		devotees:      devotees,
		duplicates:    duplicates,
		invalids:      invalids,
		logger:        logger,
	}
}

// Process takes one candidate to its terminal state. source labels the entry
// point ("api" or "import") for metrics only. A non-nil error means storage
// failed and no outcome was reached; the caller must surface it as a terminal
// failure for the whole request.
func (p *Pipeline) Process(ctx context.Context, source string, candidate Candidate) (Result, error) {
	ctx, span := tracing.StartSpan(ctx, "Pipeline.Process")
	defer span.End()

	fields, fieldErrs := p.canonicalizer.Canonicalize(candidate.Name, candidate.CountryCode, candidate.Phone, candidate.Nakshatra)
	if len(fieldErrs) > 0 {
		return p.reject(ctx, source, candidate, fieldErrs)
	}

	canonical, ok := nakshatra.Resolve(fields.Nakshatra)
	if !ok {
		metrics.NakshatraResolutionsTotal.WithLabelValues("no_match").Inc()
		return p.reject(ctx, source, candidate, []FieldError{{Field: "nakshatra", Reason: ReasonNoMatch}})
	}
	metrics.NakshatraResolutionsTotal.WithLabelValues("resolved").Inc()
	fields.Nakshatra = canonical

	identity := models.DevoteeIdentity{
		Name:        fields.Name,
		CountryCode: fields.CountryCode,
		Phone:       fields.Phone,
		Nakshatra:   fields.Nakshatra,
	}

	exists, err := p.devotees.ExistsByIdentity(ctx, identity, nil)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to check for existing devotee")
	}
	if exists {
		return p.duplicate(ctx, source, identity)
	}

	created, err := p.devotees.Create(ctx, &models.Devotee{
		Name:        fields.Name,
		CountryCode: fields.CountryCode,
		Phone:       fields.Phone,
		Nakshatra:   fields.Nakshatra,
	})
	if err != nil {
		// A concurrent request may have inserted the same identity between
		// the existence check and the insert. The constraint violation is the
		// authoritative verdict, not a failure.
		if errors.Is(err, repositories.ErrDevoteeExists) {
			return p.duplicate(ctx, source, identity)
		}
		return Result{}, errors.Wrap(err, "failed to create devotee")
	}

	metrics.IntakeOutcomesTotal.WithLabelValues(string(OutcomeAccepted), source).Inc()
	return Result{Outcome: OutcomeAccepted, Devotee: created}, nil
}

// Validate runs canonicalization, star resolution and duplicate detection
// without side effects. Used when revalidating an update, where excludeID
// keeps the record from colliding with itself.
func (p *Pipeline) Validate(ctx context.Context, candidate Candidate, excludeID *uuid.UUID) (CanonicalFields, []FieldError, error) {
	ctx, span := tracing.StartSpan(ctx, "Pipeline.Validate")
	defer span.End()

	fields, fieldErrs := p.canonicalizer.Canonicalize(candidate.Name, candidate.CountryCode, candidate.Phone, candidate.Nakshatra)
	if len(fieldErrs) > 0 {
		return CanonicalFields{}, fieldErrs, nil
	}

	canonical, ok := nakshatra.Resolve(fields.Nakshatra)
	if !ok {
		return CanonicalFields{}, []FieldError{{Field: "nakshatra", Reason: ReasonNoMatch}}, nil
	}
	fields.Nakshatra = canonical

	exists, err := p.devotees.ExistsByIdentity(ctx, models.DevoteeIdentity{
		Name:        fields.Name,
		CountryCode: fields.CountryCode,
		Phone:       fields.Phone,
		Nakshatra:   fields.Nakshatra,
	}, excludeID)
	if err != nil {
		return CanonicalFields{}, nil, errors.Wrap(err, "failed to check for existing devotee")
	}
	if exists {
		return CanonicalFields{}, nil, repositories.ErrDevoteeExists
	}

	return fields, nil, nil
}

func (p *Pipeline) duplicate(ctx context.Context, source string, identity models.DevoteeIdentity) (Result, error) {
	err := p.duplicates.Insert(ctx, &models.DuplicateEntry{
		Name:        identity.Name,
		CountryCode: identity.CountryCode,
		Phone:       identity.Phone,
		Nakshatra:   identity.Nakshatra,
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to record duplicate entry")
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"name":      identity.Name,
		"nakshatra": identity.Nakshatra,
	}).Info("duplicate devotee submission recorded")

	metrics.IntakeOutcomesTotal.WithLabelValues(string(OutcomeDuplicate), source).Inc()
	return Result{Outcome: OutcomeDuplicate}, nil
}

func (p *Pipeline) reject(ctx context.Context, source string, candidate Candidate, fieldErrs []FieldError) (Result, error) {
	reasons := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		reasons = append(reasons, fieldErr.Error())
		metrics.IntakeRejectionsTotal.WithLabelValues(fieldErr.Field).Inc()
	}

	// Best-effort copies of the raw values so an operator can correct the
	// source data from the audit table alone.
	err := p.invalids.Insert(ctx, &models.InvalidEntry{
		Name:        strings.TrimSpace(candidate.Name),
		CountryCode: strings.TrimSpace(candidate.CountryCode),
		Phone:       strings.TrimSpace(candidate.Phone),
		Nakshatra:   strings.TrimSpace(candidate.Nakshatra),
		Reason:      strings.Join(reasons, "; "),
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to record invalid entry")
	}

	metrics.IntakeOutcomesTotal.WithLabelValues(string(OutcomeRejected), source).Inc()
	return Result{Outcome: OutcomeRejected, FieldErrors: fieldErrs}, nil
}
