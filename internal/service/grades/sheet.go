// Package grades builds grade sheets of a course grading item and saves them back.
package grades

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nkiryanov/gestiondocente/internal/logger"
	"github.com/nkiryanov/gestiondocente/internal/models"
)

const defaultConcurrency = 4

// Backend grade endpoints used by the sheet
type API interface {
	CourseRoster(ctx context.Context, courseID int64) ([]models.StudentSummary, error)
	GradesByItem(ctx context.Context, courseID int64, itemID int64) ([]models.Grade, error)
	CreateGrade(ctx context.Context, g models.NewGrade) (models.Grade, error)
	UpdateGrade(ctx context.Context, id int64, value decimal.Decimal) (models.Grade, error)
	DeleteGrade(ctx context.Context, id int64) error
}

// Row of the sheet: an enrolled student with the current grade if any
type Row struct {
	StudentCode string           `json:"codigoAlumno"`
	StudentName string           `json:"nombre"`
	GradeID     *int64           `json:"idNota"`
	Value       *decimal.Decimal `json:"calificacion"`
}

type Sheet struct {
	CourseID int64 `json:"idCurso"`
	ItemID   int64 `json:"idEstructura"`
	Rows     []Row `json:"filas"`
}

// Entry is the edited value of a row. Nil value clears the grade
type Entry struct {
	StudentCode string           `json:"codigoAlumno" validate:"required"`
	Value       *decimal.Decimal `json:"calificacion"`
}

type RowError struct {
	StudentCode string `json:"codigoAlumno"`
	Message     string `json:"mensaje"`

	Err error `json:"-"`
}

type SaveResult struct {
	Created   int        `json:"creadas"`
	Updated   int        `json:"actualizadas"`
	Deleted   int        `json:"eliminadas"`
	Unchanged int        `json:"sinCambios"`
	Skipped   []string   `json:"omitidas"`
	Failed    []RowError `json:"errores"`
}

type Config struct {
	// Max backend calls in flight while saving
	// If not set than default is used
	Concurrency int

	// If not set than no-op logger is used
	Logger logger.Logger
}

type Service struct {
	api         API
	concurrency int
	logger      logger.Logger
}

func NewService(cfg Config, api API) (*Service, error) {
	if api == nil {
		return nil, errors.New("api must not be nil")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoOpLogger()
	}

	return &Service{api: api, concurrency: cfg.Concurrency, logger: cfg.Logger}, nil
}

// Load merges course roster with existing grades of the item, keeping roster order
func (s *Service) Load(ctx context.Context, courseID int64, itemID int64) (Sheet, error) {
	var (
		roster []models.StudentSummary
		grades []models.Grade
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		roster, err = s.api.CourseRoster(gctx, courseID)
		return err
	})
	g.Go(func() (err error) {
		grades, err = s.api.GradesByItem(gctx, courseID, itemID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Sheet{}, err
	}

	byCode := indexByStudent(grades)

	rows := make([]Row, 0, len(roster))
	for _, student := range roster {
		row := Row{StudentCode: student.Code, StudentName: student.DisplayName()}
		if grade, ok := byCode[student.Code]; ok {
			row.GradeID = &grade.ID
			row.Value = &grade.Value
		}
		rows = append(rows, row)
	}

	return Sheet{CourseID: courseID, ItemID: itemID, Rows: rows}, nil
}

type opKind int

const (
	opCreate opKind = iota
	opUpdate
	opDelete
)

type op struct {
	kind  opKind
	code  string
	id    int64
	value decimal.Decimal
}

// Save applies entries against current grades of the item.
// Cleared value of an existing grade deletes it, values outside the scale are skipped,
// equal values are left untouched. Failures are collected per row and never abort the save
func (s *Service) Save(ctx context.Context, courseID int64, itemID int64, entries []Entry) (SaveResult, error) {
	current, err := s.api.GradesByItem(ctx, courseID, itemID)
	if err != nil {
		return SaveResult{}, fmt.Errorf("can't load current grades: %w", err)
	}
	byCode := indexByStudent(current)

	result := SaveResult{Skipped: []string{}, Failed: []RowError{}}
	var ops []op

	for _, e := range entries {
		existing, exists := byCode[e.StudentCode]

		switch {
		case e.Value == nil && exists:
			ops = append(ops, op{kind: opDelete, code: e.StudentCode, id: existing.ID})
		case e.Value == nil:
			result.Unchanged++
		case !models.ValidGrade(*e.Value):
			result.Skipped = append(result.Skipped, e.StudentCode)
		case !exists:
			ops = append(ops, op{kind: opCreate, code: e.StudentCode, value: *e.Value})
		case existing.Value.Equal(*e.Value):
			result.Unchanged++
		default:
			ops = append(ops, op{kind: opUpdate, code: e.StudentCode, id: existing.ID, value: *e.Value})
		}
	}

	var mu sync.Mutex
	g := &errgroup.Group{}
	g.SetLimit(s.concurrency)

	for _, o := range ops {
		g.Go(func() error {
			err := s.apply(ctx, courseID, itemID, o)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				s.logger.Warn("Error saving grade", "student", o.code, "error", err)
				result.Failed = append(result.Failed, RowError{StudentCode: o.code, Message: err.Error(), Err: err})
				return nil
			}

			switch o.kind {
			case opCreate:
				result.Created++
			case opUpdate:
				result.Updated++
			case opDelete:
				result.Deleted++
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("Grade sheet saved",
		"course", courseID, "item", itemID,
		"created", result.Created, "updated", result.Updated, "deleted", result.Deleted,
		"skipped", len(result.Skipped), "failed", len(result.Failed),
	)
	return result, nil
}

func (s *Service) apply(ctx context.Context, courseID int64, itemID int64, o op) error {
	switch o.kind {
	case opCreate:
		_, err := s.api.CreateGrade(ctx, models.NewGrade{
			StudentCode: o.code,
			CourseID:    courseID,
			ItemID:      itemID,
			Value:       o.value,
		})
		return err
	case opUpdate:
		_, err := s.api.UpdateGrade(ctx, o.id, o.value)
		return err
	case opDelete:
		return s.api.DeleteGrade(ctx, o.id)
	default:
		return fmt.Errorf("unknown operation %d", o.kind)
	}
}

func indexByStudent(grades []models.Grade) map[string]models.Grade {
	byCode := make(map[string]models.Grade, len(grades))
	for _, g := range grades {
		byCode[g.StudentCode] = g
	}
	return byCode
}
