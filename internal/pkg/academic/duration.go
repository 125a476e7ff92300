package academic

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

// ProgramLookup finds a program's duration in years by name or code.
// It returns apperrors.ErrProgramNotFound when no record matches.
type ProgramLookup interface {
	DurationByNameOrCode(ctx context.Context, nameOrCode string) (int, error)
}

// DurationResolver answers "how many years is this program" for the standing
// calculation. Program records win; the configured table is a logged
// degraded path for programs nobody has created yet.
type DurationResolver struct {
	programs        ProgramLookup
	fallback        map[string]int
	defaultDuration int
	logger          zerolog.Logger
}

// NewDurationResolver builds a resolver over the program store and the
// configured fallback table. Table keys are normalised on the way in.
func NewDurationResolver(programs ProgramLookup, fallback map[string]int, defaultDuration int, logger zerolog.Logger) *DurationResolver {
	table := make(map[string]int, len(fallback))
	for name, years := range fallback {
		table[NormalizeProgramName(name)] = years
	}
	if defaultDuration < 1 {
		defaultDuration = 4
	}
	return &DurationResolver{
		programs:        programs,
		fallback:        table,
		defaultDuration: defaultDuration,
		logger:          logger,
	}
}

// Resolve returns the duration for program, or ErrUnknownProgram when neither
// a record nor the fallback table knows it.
func (r *DurationResolver) Resolve(ctx context.Context, program string) (int, error) {
	program = strings.TrimSpace(program)
	if program == "" {
		return 0, fmt.Errorf("%w: program is empty", apperrors.ErrUnknownProgram)
	}

	if r.programs != nil {
		years, err := r.programs.DurationByNameOrCode(ctx, program)
		if err == nil {
			return years, nil
		}
		if !apperrors.Is(err, apperrors.ErrProgramNotFound) {
			return 0, err
		}
	}

	if years, ok := r.fallback[NormalizeProgramName(program)]; ok {
		r.logger.Warn().
			Str("program", program).
			Int("duration", years).
			Msg("No program record found, using configured fallback duration")
		return years, nil
	}

	return 0, fmt.Errorf("%w: %s", apperrors.ErrUnknownProgram, program)
}

// ResolveOrDefault is the read path: an unknown program is logged and the
// configured default is used so listings never fail on stale data.
func (r *DurationResolver) ResolveOrDefault(ctx context.Context, program string) int {
	years, err := r.Resolve(ctx, program)
	if err != nil {
		r.logger.Warn().Err(err).
			Str("program", program).
			Int("duration", r.defaultDuration).
			Msg("Program duration unresolved, using default")
		return r.defaultDuration
	}
	return years
}

// Standing resolves the duration and derives the standing in one step.
func (r *DurationResolver) Standing(ctx context.Context, program string, admissionYear int, now time.Time) Standing {
	return DeriveStanding(admissionYear, r.ResolveOrDefault(ctx, program), now)
}

// NormalizeProgramName upper-cases and drops everything but letters and
// digits, so "B.Tech", "b tech" and "BTECH" share one key.
func NormalizeProgramName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
