package repositories

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/dberrors"
)

// Repositories holds all the repository instances
type Repositories struct {
	Program            *ProgramRepository
	Branch             *BranchRepository
	Batch              *BatchRepository
	Student            *StudentRepository
	Faculty            *FacultyRepository
	Staff              *StaffRepository
	Subject            *SubjectRepository
	SubjectMap         *SubjectMapRepository
	Question           *QuestionRepository
	Window             *WindowRepository
	Feedback           *FeedbackRepository
	Token              *TokenRepository
	PasswordResetToken *PasswordResetTokenRepository
	Stats              *StatsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Program:            NewProgramRepository(db),
		Branch:             NewBranchRepository(db),
		Batch:              NewBatchRepository(db),
		Student:            NewStudentRepository(db),
		Faculty:            NewFacultyRepository(db),
		Staff:              NewStaffRepository(db),
		Subject:            NewSubjectRepository(db),
		SubjectMap:         NewSubjectMapRepository(db),
		Question:           NewQuestionRepository(db),
		Window:             NewWindowRepository(db),
		Feedback:           NewFeedbackRepository(db),
		Token:              NewTokenRepository(db),
		PasswordResetToken: NewPasswordResetTokenRepository(db),
		Stats:              NewStatsRepository(db),
	}
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// duplicateError turns a unique violation into a 400-class error naming the
// entity; other errors pass through unchanged.
func duplicateError(err error, entity string) error {
	if !dberrors.IsDuplicateKeyError(err) {
		return err
	}
	return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists,
		fmt.Sprintf("%s already exists", entity)).WithCode(dberrors.ConstraintName(err))
}

// ilike builds a case-insensitive contains pattern.
func ilike(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(search)) + "%"
}

// upsertSuffix is appended to INSERTs that should update on a natural key
// conflict. xmax = 0 holds only for freshly inserted rows.
func upsertSuffix(conflict, set string) string {
	return upsertSuffixWhere(conflict, set, "")
}

// upsertSuffixWhere limits the update to conflicting rows matching where. A
// conflicting row that does not match returns no rows.
func upsertSuffixWhere(conflict, set, where string) string {
	suffix := "ON CONFLICT " + conflict + " DO UPDATE SET " + set + ", updated_at = NOW()"
	if where != "" {
		suffix += " WHERE " + where
	}
	return suffix + " RETURNING id, (xmax = 0) AS inserted"
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
