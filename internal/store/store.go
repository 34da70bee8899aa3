package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/kathyxu-winderland/daily-fintrack-team/internal/models"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/notify"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a mutation targets an id that is not in
// the active collection. Archived records are never a valid target.
var ErrNotFound = errors.New("record not found")

// ValidationError rejects a manual entry before any state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Store owns the active and archived task collections and every state
// transition between them. One instance is constructed at startup and
// handed to the request handlers; there is no ambient singleton.
//
// A record is always in exactly one of {active, archived}: completion
// moves it to the archive in one transaction, and nothing moves it back.
type Store struct {
	db         *gorm.DB
	categories []string
	notifier   notify.Notifier
}

func New(db *gorm.DB, categories []string, notifier notify.Notifier) *Store {
	return &Store{
		db:         db,
		categories: categories,
		notifier:   notifier,
	}
}

// Categories returns the canonical category enumeration.
func (s *Store) Categories() []string {
	return s.categories
}

func (s *Store) hasCategory(name string) bool {
	for _, c := range s.categories {
		if c == name {
			return true
		}
	}
	return false
}

// notify emits an event without ever blocking or failing the mutation.
func (s *Store) notify(e notify.Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(e)
}

func (s *Store) validate(t *models.Task) error {
	if t.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if !s.hasCategory(t.Category) {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("%q is not a configured category", t.Category)}
	}
	if t.CostCent < 0 {
		return &ValidationError{Field: "cost", Reason: "must not be negative"}
	}
	return nil
}

// Create validates and inserts a new active record and returns its id.
func (s *Store) Create(t *models.Task) (uint, error) {
	if err := s.validate(t); err != nil {
		return 0, err
	}

	// new records always start pending
	t.ID = 0
	t.Status = false

	if err := s.db.Create(t).Error; err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}

	s.notify(notify.Event{
		Kind:     notify.KindCreated,
		Task:     t.Title,
		Category: t.Category,
		Assignee: t.Assignee,
		CostCent: t.CostCent,
	})
	return t.ID, nil
}

// BulkInsert inserts a batch of already-normalized records in one
// transaction. Rows arrive from the import normalizer, which has
// resolved categories, so validation failures abort the whole batch
// instead of being skipped row by row.
func (s *Store) BulkInsert(tasks []models.Task) error {
	for i := range tasks {
		if err := s.validate(&tasks[i]); err != nil {
			return err
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range tasks {
			tasks[i].ID = 0
			tasks[i].Status = false
			if err := tx.Create(&tasks[i]).Error; err != nil {
				return fmt.Errorf("insert row %d: %w", i, err)
			}
		}
		return nil
	})
}

// Get returns one active record by id.
func (s *Store) Get(id uint) (*models.Task, error) {
	var t models.Task
	if err := s.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// Edit replaces the mutable fields of an active record. Archived records
// cannot be edited: the archive is immutable by design, so an archived
// id reports ErrNotFound like any other missing active id.
func (s *Store) Edit(id uint, upd models.Task) (*models.Task, error) {
	if err := s.validate(&upd); err != nil {
		return nil, err
	}

	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	t.Title = upd.Title
	t.Category = upd.Category
	t.Assignee = upd.Assignee
	t.Due = upd.Due
	t.CostCent = upd.CostCent
	t.Notes = upd.Notes
	t.Urgent = upd.Urgent

	if err := s.db.Save(t).Error; err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return t, nil
}

// CompleteAndArchive moves an active record into the archive, stamping
// archived_at and flipping status in the same transaction that removes
// the active row. Calling it again for the same id is a no-op: the
// record is simply gone from the active collection, and no duplicate
// archive entry or error is produced.
func (s *Store) CompleteAndArchive(id uint) error {
	var archived *models.ArchivedTask

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var t models.Task
		if err := tx.First(&t, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // already archived or deleted
			}
			return err
		}

		a := models.ArchivedTask{
			TaskID:     t.ID,
			Title:      t.Title,
			Category:   t.Category,
			Assignee:   t.Assignee,
			Due:        t.Due,
			CostCent:   t.CostCent,
			Notes:      t.Notes,
			Urgent:     t.Urgent,
			Status:     true,
			ArchivedAt: time.Now(),
			CreatedAt:  t.CreatedAt, // the snapshot keeps the original creation time
		}
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Task{}, t.ID).Error; err != nil {
			return err
		}

		archived = &a
		return nil
	})
	if err != nil {
		return fmt.Errorf("archive task: %w", err)
	}

	// notify only when the record actually transitioned
	if archived != nil {
		s.notify(notify.Event{
			Kind:     notify.KindCompleted,
			Task:     archived.Title,
			Category: archived.Category,
			Assignee: archived.Assignee,
			CostCent: archived.CostCent,
		})
	}
	return nil
}

// Delete removes an active record outright. Archived records are not
// deletable; the archive is an append-only log.
func (s *Store) Delete(id uint) error {
	res := s.db.Delete(&models.Task{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Remind re-sends a nudge for a pending record.
func (s *Store) Remind(id uint) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	s.notify(notify.Event{
		Kind:     notify.KindReminder,
		Task:     t.Title,
		Category: t.Category,
		Assignee: t.Assignee,
		CostCent: t.CostCent,
		Detail:   "due " + t.Due.Format("2006-01-02 15:04"),
	})
	return nil
}

// Filter restricts ListActive by assignee and/or category membership.
// Zero values mean "no restriction".
type Filter struct {
	Assignee   string
	Categories []string
	Newest     bool // newest first instead of insertion order
}

// ListActive returns the active records matching the filter, stable by
// insertion order.
func (s *Store) ListActive(f Filter) ([]models.Task, error) {
	q := s.db.Model(&models.Task{})
	if f.Assignee != "" {
		q = q.Where("assignee = ?", f.Assignee)
	}
	if len(f.Categories) > 0 {
		q = q.Where("category IN ?", f.Categories)
	}

	order := "id ASC"
	if f.Newest {
		order = "id DESC"
	}

	var tasks []models.Task
	if err := q.Order(order).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListArchived returns the archive log, newest first.
func (s *Store) ListArchived() ([]models.ArchivedTask, error) {
	var archived []models.ArchivedTask
	if err := s.db.
		Order("archived_at DESC, id DESC").
		Find(&archived).Error; err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	return archived, nil
}
