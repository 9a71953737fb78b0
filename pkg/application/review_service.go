// Package application orchestrates the review pipeline: load documents,
// discover automated tests, map coverage, detect problems. Services here
// never print and never write files; presentation belongs to the callers.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/docs"
	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/scanner"
	"github.com/felixgeelhaar/reqtrace/pkg/domain/coverage"
	"github.com/felixgeelhaar/reqtrace/pkg/domain/model"
	"github.com/felixgeelhaar/reqtrace/pkg/domain/review"
	"github.com/felixgeelhaar/reqtrace/pkg/domain/review/rules"
)

// ReviewOptions selects what a review run looks at and which problem codes
// are suppressed from its result.
type ReviewOptions struct {
	DocsDirs []string
	TestDirs []string
	Ignore   review.IgnoreSet
}

// Report is the complete outcome of one review run. It is rebuilt from
// scratch on every invocation; nothing is cached between runs.
type Report struct {
	ID           string                 `json:"id"`
	CreatedAt    time.Time              `json:"created_at"`
	Requirements *model.RequirementsDoc `json:"requirements"`
	Tests        *model.TestCollection  `json:"tests"`
	Coverage     *coverage.Relation     `json:"-"`
	Problems     []review.Problem       `json:"problems"`
}

// ReviewService runs the synchronous, single-threaded review pass.
type ReviewService struct {
	loader     *docs.Loader
	discoverer *scanner.Discoverer
	detector   *review.Detector
	logger     *slog.Logger
}

// NewReviewService creates a ReviewService with the full rule battery. A nil
// logger disables logging.
func NewReviewService(logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ReviewService{
		loader:     docs.NewLoader(logger),
		discoverer: scanner.NewDiscoverer(logger),
		detector:   &review.Detector{Rules: rules.Default()},
		logger:     logger,
	}
}

// Review loads all sources, builds the model, computes coverage, and runs the
// detectors. Load failures abort with an error before any problem detection;
// problems themselves never abort.
func (s *ReviewService) Review(ctx context.Context, opts ReviewOptions) (*Report, error) {
	reqDoc, manualDoc, err := s.loader.Load(ctx, opts.DocsDirs)
	if err != nil {
		return nil, err
	}

	automated, err := s.discoverer.Discover(ctx, opts.TestDirs)
	if err != nil {
		return nil, err
	}

	collection := &model.TestCollection{ManualDoc: manualDoc, Automated: automated}
	relation := coverage.Map(reqDoc, collection.AllTests())

	problems := s.detector.Review(review.Input{
		Doc:      reqDoc,
		Tests:    collection,
		Coverage: relation,
	}, opts.Ignore)

	s.logger.Info("review finished",
		"requirements", len(reqDoc.Requirements()),
		"tests", len(collection.AllTests()),
		"problems", len(problems))

	return &Report{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Requirements: reqDoc,
		Tests:        collection,
		Coverage:     relation,
		Problems:     problems,
	}, nil
}
